// history.go implements "murph history" and its subcommands.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lowaak/murph-tracker/internal/workout"
)

const historyTimeLayout = "2006-01-02 15:04"

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List, show and delete finished workouts",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList(opts),
	}

	historyCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List finished workouts, most recent first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList(opts),
	})

	historyCmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print the stats of one workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStores(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := s.gateway.GetResult(cmd.Context(), args[0])
			if err != nil {
				return notFoundHint(err, args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %s\n", result.ID)
			fmt.Fprintf(out, "Completed: %s\n\n", result.CompletedAt.Local().Format(historyTimeLayout))
			fmt.Fprintln(out, workout.StatsText(result))
			return nil
		},
	})

	historyCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one workout from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStores(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.gateway.DeleteResult(cmd.Context(), args[0]); err != nil {
				return notFoundHint(err, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	})

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every workout from the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the history without --yes")
			}
			s, err := openStores(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.gateway.ClearAllResults(cmd.Context()); err != nil {
				return fmt.Errorf("clearing history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting all workouts")
	historyCmd.AddCommand(clearCmd)

	return historyCmd
}

func runHistoryList(opts *rootOptions) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openStores(opts)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.gateway.ListResults(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing history: %w", err)
		}
		printHistory(cmd.OutOrStdout(), results)
		return nil
	}
}

func printHistory(out io.Writer, results []workout.WorkoutResult) {
	if len(results) == 0 {
		fmt.Fprintln(out, "No workouts yet.")
		return
	}
	for _, r := range results {
		status := "partial"
		if r.IsFullyComplete {
			status = "complete"
		}
		fmt.Fprintf(out, "%s  %s  %-14s  %-8s  %4d reps  %s\n",
			r.ID, r.CompletedAt.Local().Format(historyTimeLayout), r.Mode.DisplayName(),
			r.Duration, r.TotalReps, status)
	}
	fmt.Fprintf(out, "\n%d workout(s)\n", len(results))
}

func notFoundHint(err error, id string) error {
	if errors.Is(err, workout.ErrResultNotFound) {
		return fmt.Errorf("no workout with id %s; list them with: murph history", id)
	}
	return err
}
