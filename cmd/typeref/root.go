package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/funvibe/typeref/internal/config"
	"github.com/funvibe/typeref/internal/logging"
)

// options carries flag values and the resolved configuration shared by all
// subcommands.
type options struct {
	configPath string
	db         string
	format     string
	color      string
	verbose    bool

	cfg *config.Config
	log *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "typeref",
		Short: "Substitute generic arguments into reflection type references",
		Long: "typeref builds type references from session documents, substitutes concrete\n" +
			"types for their generic parameters and resolves dependent members through\n" +
			"recorded type witnesses.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: typeref.yaml/.toml found from the working directory)")
	flags.StringVar(&opts.db, "db", "", "SQLite witness store")
	flags.StringVar(&opts.format, "format", "", "result format: compact, tree or yaml")
	flags.StringVar(&opts.color, "color", "", "color output: auto, always or never")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print progress messages")

	rootCmd.AddCommand(newSubstCmd(opts), newInspectCmd(opts), newWitnessCmd(opts))
	return rootCmd
}

func (o *options) load(cmd *cobra.Command) error {
	path := o.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if path, err = config.FindConfig(wd); err != nil {
			return err
		}
	}

	if path == "" {
		o.cfg = config.Default()
	} else {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return err
		}
		o.cfg = cfg
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		o.cfg.WitnessDB = o.db
	}
	if flags.Changed("format") {
		o.cfg.Format = o.format
	}
	if flags.Changed("color") {
		o.cfg.Color = o.color
	}
	if flags.Changed("verbose") {
		o.cfg.Verbose = o.verbose
	}
	if err := o.cfg.Validate(); err != nil {
		return err
	}

	o.log = logging.Setup(o.cfg.Color, cmd.ErrOrStderr(), o.cfg.Verbose)
	if path != "" {
		o.log.Info("config", path)
	}
	return nil
}
