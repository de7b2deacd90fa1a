package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funvibe/typeref/internal/refdoc"
	"github.com/funvibe/typeref/internal/session"
	"github.com/funvibe/typeref/internal/typeref"
	"github.com/funvibe/typeref/internal/witness"
)

var errNoStore = errors.New("no witness store configured (use --db or witness_db)")

func newWitnessCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "witness",
		Short: "Manage the persistent witness store",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "import FILE",
			Short: "Store the witnesses recorded in a session document",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.runWitnessImport(cmd, args[0])
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored witnesses",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.runWitnessList(cmd)
			},
		},
	)
	return cmd
}

func (o *options) openStore(cmd *cobra.Command) (*witness.Store, error) {
	if o.cfg.WitnessDB == "" {
		return nil, errNoStore
	}
	return witness.Open(cmd.Context(), o.cfg.WitnessDB)
}

func (o *options) runWitnessImport(cmd *cobra.Command, path string) error {
	s, err := session.Load(typeref.NewBuilder(), path)
	if err != nil {
		return err
	}
	store, err := o.openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	batch, err := store.Import(cmd.Context(), s.Witnesses)
	if err != nil {
		return err
	}
	o.log.Success("import", fmt.Sprintf("%d witnesses from %s (batch %s)", s.Witnesses.Len(), path, batch))
	return nil
}

func (o *options) runWitnessList(cmd *cobra.Command) error {
	store, err := o.openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	b := typeref.NewBuilder()
	out := cmd.OutOrStdout()
	for _, e := range entries {
		t, err := refdoc.Decode(b, e.Witness)
		if err != nil {
			o.log.Warn("skip", fmt.Sprintf("%s: %v", e.Key, err))
			continue
		}
		fmt.Fprintf(out, "%s => %s\n", e.Key, t)
	}
	return nil
}
