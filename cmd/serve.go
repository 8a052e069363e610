package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jjenkins/civic/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	port      int
	warmStart bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the civic engagement API server",
	Long: `Start the HTTP server. Bills, legislators and news are fetched from the
upstream APIs on demand and cached in memory; polls, feedback, events, users
and chat sessions live in memory for the life of the process.

Examples:
  # Serve on the configured port
  ./civic serve

  # Serve on port 3000 and load federal bills and news before accepting traffic
  ./civic serve --port 3000 --warm`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run the server on (overrides config)")
	serveCmd.Flags().BoolVar(&warmStart, "warm", false, "Import upstream data before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return err
	}
	defer app.Close()

	if warmStart || cfg.Import.WarmOnStart {
		stats, err := app.importer.Import(ctx, app.importOptions())
		if err != nil {
			return err
		}
		logger.Info("warmed store",
			zap.Int("fetched", stats.Fetched),
			zap.Int("inserted", stats.Inserted),
			zap.Int("failed", stats.Failed),
		)
	}
	if cfg.Import.RefreshInterval > 0 {
		go app.refreshLoop(ctx, cfg.Import.RefreshInterval)
	}
	if app.deps.Engagement.HasSink() {
		go app.deps.Engagement.Run(ctx, cfg.Database.MetricsInterval)
	}

	srv := server.New(cfg.Server, app.deps, app.status, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
