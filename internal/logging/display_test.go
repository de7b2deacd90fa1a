package logging

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/pterm/pterm"

	"github.com/funvibe/typeref/internal/config"
)

func TestLogger(t *testing.T) {
	SetupColor(config.ColorNever, nil)
	defer pterm.EnableColor()

	tests := []struct {
		name    string
		verbose bool
		log     func(*Logger)
		want    string
	}{
		{"success", false, func(l *Logger) { l.Success("import", "3 witnesses") }, " import  3 witnesses\n"},
		{"warn", false, func(l *Logger) { l.Warn("skip", "bad node") }, " skip  bad node\n"},
		{"error", false, func(l *Logger) { l.Error("error", errors.New("boom")) }, " error  boom\n"},
		{"info quiet", false, func(l *Logger) { l.Info("load", "session.yaml") }, ""},
		{"info verbose", true, func(l *Logger) { l.Info("load", "session.yaml") }, " load  session.yaml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(New(&buf, tt.verbose))
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetupColorAuto(t *testing.T) {
	defer pterm.EnableColor()

	// A nil file is never a terminal.
	SetupColor(config.ColorAuto, nil)
	if pterm.PrintColor {
		t.Error("auto mode without a terminal should disable color")
	}
	SetupColor(config.ColorAlways, nil)
	if !pterm.PrintColor {
		t.Error("always mode should enable color")
	}
}

func TestSetupDetectsOnLoggerStream(t *testing.T) {
	defer pterm.EnableColor()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	// A pipe is not a terminal, whatever stdout is.
	pterm.EnableColor()
	Setup(config.ColorAuto, w, false)
	if pterm.PrintColor {
		t.Error("auto mode should follow the logger's own stream")
	}

	var buf bytes.Buffer
	Setup(config.ColorAlways, &buf, false)
	if !pterm.PrintColor {
		t.Error("always mode should enable color for a non-file stream")
	}

	Setup(config.ColorNever, &buf, false).Warn("skip", "bad node")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("never mode should not style output, got %q", buf.String())
	}
}
