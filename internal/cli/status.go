// status.go implements "murph status", which prints the saved workout.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lowaak/murph-tracker/internal/workout"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the workout in progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStores(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			state, ok := s.gateway.LoadCurrentWorkout(cmd.Context())
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No workout in progress. Start one with: murph")
				return nil
			}
			timer := workout.NewTimer(workout.SystemClock{}, s.cfg.Timer.TickInterval, s.logs.Logger)
			printStatus(cmd.OutOrStdout(), state, timer.Elapsed(state))
			return nil
		},
	}
}

func printStatus(out io.Writer, state workout.WorkoutState, elapsed time.Duration) {
	fmt.Fprintf(out, "%s (%s)\n", state.WorkoutMode.DisplayName(), workout.PhaseOf(state))
	fmt.Fprintf(out, "Progress: %d%%\n", workout.OverallProgress(state))
	if state.TimerEnabled {
		fmt.Fprintf(out, "Time:     %s\n", workout.FormatElapsed(elapsed))
	} else {
		fmt.Fprintf(out, "Time:     %s\n", workout.NoTimerLabel)
	}
	fmt.Fprintln(out)

	for _, sec := range state.Sections {
		mark := "[ ]"
		if sec.IsDone() {
			mark = "[✓]"
		}
		if sec.IsReps() {
			fmt.Fprintf(out, "  %s %s %-10s %d/%d\n", mark, sec.Icon, sec.Name, sec.Count, sec.Total)
		} else {
			fmt.Fprintf(out, "  %s %s %s\n", mark, sec.Icon, sec.Name)
		}
	}
}
