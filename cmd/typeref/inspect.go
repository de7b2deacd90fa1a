package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/funvibe/typeref/internal/session"
	"github.com/funvibe/typeref/internal/typeref"
)

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Describe a session's root type and the generic arguments it binds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runInspect(cmd.OutOrStdout(), args[0])
		},
	}
}

func (o *options) runInspect(out io.Writer, path string) error {
	b := typeref.NewBuilder()
	s, err := session.Load(b, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "kind:      %s\n", s.Root.Kind())
	fmt.Fprintf(out, "concrete:  %t\n", s.Root.IsConcrete())
	fmt.Fprintf(out, "arguments: %s\n", typeref.SubstMap(s.Root))
	fmt.Fprintf(out, "bindings:  %s\n", s.Subs)
	fmt.Fprintf(out, "witnesses: %d\n", s.Witnesses.Len())
	return writeType(out, o.cfg.Format, s.Root)
}
