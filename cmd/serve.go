package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pomodoro/internal/progressapi"
	"pomodoro/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the progress API",
	Long: `Serves the progress API the timer reports to:

  GET  /api/progress     today's and all-time totals
  POST /api/progress     {"action": "complete_session" | "reset_today"}
  GET  /api/statistics   ?period=week|month

Sessions are stored in SQLite.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:5000", "Listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (default: user config dir)")
}

func runServe(cmd *cobra.Command, args []string) error {
	path := serveDB
	if path == "" {
		var err error
		path, err = storage.ProgressDBPath(appName)
		if err != nil {
			return err
		}
	}

	store, err := storage.OpenProgressStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              serveAddr,
		Handler:           newAPIHandler(store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("progress api listening", zap.String("addr", serveAddr), zap.String("db", path))
	return serveUntilDone(ctx, server)
}

func newAPIHandler(repo progressapi.Repository) http.Handler {
	manager := progressapi.NewManager(repo, logger.Named("progress"))
	return progressapi.NewHandler(manager, logger.Named("http"))
}

// serveUntilDone runs server until ctx is cancelled, then shuts it down gracefully.
func serveUntilDone(ctx context.Context, server *http.Server) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("progress api stopped")
		return nil
	})
	return group.Wait()
}
