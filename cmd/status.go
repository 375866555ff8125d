package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"pomodoro/internal/progress"

	"github.com/spf13/cobra"
)

const statusTimeout = 5 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print today's progress",
	Long: `Reads the progress API and prints today's and all-time totals.
Prints zeros when the API cannot be reached.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()

	tracker := progress.NewTracker(progress.NewClient(settings.APIBaseURL, nil), logger.Named("progress"))
	summary := tracker.Refresh(ctx)
	printStatus(cmd.OutOrStdout(), summary, tracker.Online())
	return nil
}

func printStatus(out io.Writer, summary progress.Summary, online bool) {
	fmt.Fprintf(out, "Today: %d sessions, %d min focus\n", summary.TodayCompleted, summary.TodayFocusMinutes)
	fmt.Fprintf(out, "Total: %d sessions, %d min focus\n", summary.TotalCompleted, summary.TotalFocusMinutes)
	if !online {
		fmt.Fprintf(out, "(progress api at %s unreachable)\n", settings.APIBaseURL)
	}
}
