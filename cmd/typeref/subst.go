package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/funvibe/typeref/internal/config"
	"github.com/funvibe/typeref/internal/refdoc"
	"github.com/funvibe/typeref/internal/session"
	"github.com/funvibe/typeref/internal/typeref"
	"github.com/funvibe/typeref/internal/witness"
)

func newSubstCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "subst FILE",
		Short: "Apply a session's substitutions to its root type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runSubst(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (o *options) runSubst(ctx context.Context, out io.Writer, path string) error {
	b := typeref.NewBuilder()
	o.log.Info("session", b.ID().String())

	s, err := session.Load(b, path)
	if err != nil {
		return err
	}
	o.log.Info("load", fmt.Sprintf("%s: %d substitutions, %d witnesses", path, len(s.Subs), s.Witnesses.Len()))

	var resolver typeref.WitnessResolver = s.Witnesses
	if o.cfg.WitnessDB != "" {
		store, err := witness.Open(ctx, o.cfg.WitnessDB)
		if err != nil {
			return err
		}
		defer store.Close()
		resolver = witness.Chain{s.Witnesses, store.Resolver(ctx, b)}
		o.log.Info("witness", o.cfg.WitnessDB)
	}

	result, err := typeref.TrySubst(b, resolver, s.Root, s.Subs)
	if err != nil {
		return err
	}
	o.log.Info("nodes", fmt.Sprintf("%d unique nodes", b.Len()))
	return writeType(out, o.cfg.Format, result)
}

func writeType(out io.Writer, format string, t typeref.TypeRef) error {
	switch format {
	case config.FormatTree:
		return typeref.Dump(out, t)
	case config.FormatYAML:
		data, err := refdoc.EncodeYAML(t)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(out, t)
		return err
	}
}
