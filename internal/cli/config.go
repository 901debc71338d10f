// config.go implements "murph config", which manages murph.yaml.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lowaak/murph-tracker/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the murph config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the current settings",
		Long: `Write murph.yaml with the settings resolved from flags, environment
and defaults. Without a path it is written to ~/.murph/murph.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteFile(path, cfg, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			source := cfg.ConfigFile
			if source == "" {
				source = "(none, defaults)"
			}
			fmt.Fprintf(out, "config file:       %s\n", source)
			fmt.Fprintf(out, "data_dir:          %s\n", cfg.DataDir)
			fmt.Fprintf(out, "log.file:          %s\n", cfg.Log.File)
			fmt.Fprintf(out, "timer.tick:        %s\n", cfg.Timer.TickInterval)
			fmt.Fprintf(out, "auto_finish_delay: %s\n", cfg.Workout.AutoFinishDelay)
			fmt.Fprintf(out, "default_mode:      %s\n", cfg.Workout.DefaultMode)
			fmt.Fprintf(out, "timer_enabled:     %t\n", cfg.Workout.TimerEnabled)
			return nil
		},
	})
	return configCmd
}
