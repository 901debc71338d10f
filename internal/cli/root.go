// Package cli defines the Cobra commands of the murph binary.
// This file contains the root command, which starts the terminal UI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lowaak/murph-tracker/internal/config"
)

var version = "dev" // set via ldflags at build time

// rootOptions is shared by every command of one command tree
type rootOptions struct {
	loader     *config.Loader
	configFile string
}

func (o *rootOptions) load() (*config.Config, error) {
	return o.loader.Load(o.configFile)
}

// NewRootCommand builds the murph command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{loader: config.NewLoader()}

	rootCmd := &cobra.Command{
		Use:   "murph",
		Short: "Track Murph Challenge workouts in the terminal",
		Long: `murph tracks a Murph Challenge workout section by section:
a mile run, 100 pull-ups, 200 push-ups, 300 squats and a second mile run,
or the half and quarter variants. Progress is saved after every change and
finished workouts are kept in a local history.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return cmd.Help()
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			return runTUI(cfg, flags.Changed("mode") || flags.Changed("timer"))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default murph.yaml in the data dir or working dir)")
	opts.loader.RegisterFlags(flags)

	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	return rootCmd
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
