package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/progress"
	"pomodoro/internal/ui/terminal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the timer in the terminal",
	Long: `Runs the session timer as a full-screen terminal app.

Keys: space/s start or pause, r reset, ? help, q quit.
Logs go to a file in the temp directory so they do not disturb the screen.`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	tuiLog, err := terminalLogger()
	if err != nil {
		return err
	}
	defer func() {
		_ = tuiLog.Sync()
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tracker := progress.NewTracker(progress.NewClient(settings.APIBaseURL, nil), tuiLog.Named("progress"))
	sessionTimer, err := timer.New(settings.TimerConfig(), timer.Options{
		Recorder: tracker,
		Logger:   tuiLog.Named("timer"),
	})
	if err != nil {
		return err
	}
	defer sessionTimer.Close()

	events := timer.NewChannelPresenter(64)
	sessionTimer.AddPresenter(events)
	sessionTimer.AddPresenter(timer.NewLogPresenter(tuiLog.Named("presenter")))

	program := tea.NewProgram(terminal.NewModel(sessionTimer, events.Events()), tea.WithAltScreen(), tea.WithContext(ctx))

	tracker.SetOnChange(func(summary progress.Summary) {
		program.Send(terminal.SummaryMsg{Summary: summary, Online: tracker.Online()})
	})
	go func() {
		summary := tracker.Refresh(ctx)
		program.Send(terminal.SummaryMsg{Summary: summary, Online: tracker.Online()})
	}()

	if settings.StartOnLaunch {
		sessionTimer.Start()
	}

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

// terminalLogger writes to a file so log lines never land on the alt screen.
func terminalLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	path := filepath.Join(os.TempDir(), "pomodoro-tui.log")
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	tuiLog, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return tuiLog, nil
}
