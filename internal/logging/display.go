// Package logging prints tagged status lines for the typeref command.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/funvibe/typeref/internal/config"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = pterm.FgLightCyan
	InfoStyleBG    = pterm.NewStyle(pterm.BgLightCyan, pterm.FgBlack)
)

// SetupColor applies a color mode. In auto mode, color is enabled only when
// f is a terminal.
func SetupColor(mode string, f *os.File) {
	switch mode {
	case config.ColorAlways:
		pterm.EnableColor()
	case config.ColorNever:
		pterm.DisableColor()
	default:
		if f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			pterm.EnableColor()
		} else {
			pterm.DisableColor()
		}
	}
}

// Setup applies a color mode detected on w and returns a logger writing to w.
func Setup(mode string, w io.Writer, verbose bool) *Logger {
	f, _ := w.(*os.File)
	SetupColor(mode, f)
	return New(w, verbose)
}

// Logger writes tagged messages to one stream.
type Logger struct {
	out     io.Writer
	verbose bool
}

func New(out io.Writer, verbose bool) *Logger {
	return &Logger{out: out, verbose: verbose}
}

func (l *Logger) print(style *pterm.Style, color pterm.Color, tag, msg string) {
	fmt.Fprintln(l.out, style.Sprint(" "+tag+" ")+" "+color.Sprint(msg))
}

// Success prints a completion message.
func (l *Logger) Success(tag, msg string) {
	l.print(SuccessStyleBG, SuccessColorFG, tag, msg)
}

// Info prints a progress message when verbose output is on.
func (l *Logger) Info(tag, msg string) {
	if l.verbose {
		l.print(InfoStyleBG, InfoColorFG, tag, msg)
	}
}

// Warn prints a warning message.
func (l *Logger) Warn(tag, msg string) {
	l.print(WarnStyleBG, WarnColorFG, tag, msg)
}

// Error prints a standard Go error.
func (l *Logger) Error(tag string, err error) {
	l.print(ErrorStyleBG, ErrorColorFG, tag, err.Error())
}
