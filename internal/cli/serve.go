package cli

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/erazemk/imenik/internal/api"
	"github.com/erazemk/imenik/internal/config"
	"github.com/erazemk/imenik/internal/db"
	"github.com/erazemk/imenik/internal/logging"
	"github.com/erazemk/imenik/internal/metrics"
	"github.com/erazemk/imenik/internal/store"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr, dbPath, logPath string
	var noMetrics bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the document store and authentication server",
		Long: `Run the server. The SQLite database is created on first start together with
the token signing secret.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = addr
			}
			if flags.Changed("db") {
				cfg.Server.DBPath = dbPath
			}
			if flags.Changed("log") {
				cfg.Server.LogPath = logPath
			}
			if noMetrics {
				cfg.Server.Metrics = false
			}

			level, _ := logging.ParseLevel(cfg.Server.LogLevel)
			logger, closeLog, err := logging.NewServer(level, cfg.Server.LogPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return WrapExitError(ExitCommandError, "setting up logging", err)
			}
			defer closeLog()
			slog.SetDefault(logger)

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return WrapExitError(ExitFailure, "listening", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg.Server, ln)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (default from config, imenik.sqlite3)")
	cmd.Flags().StringVarP(&logPath, "log", "l", "", "also append logs to this file")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")
	return cmd
}

// serve runs the server on ln until ctx is cancelled, then shuts down
// gracefully and closes the database.
func serve(ctx context.Context, cfg config.Server, ln net.Listener) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return WrapExitError(ExitFailure, "opening database", err)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		return WrapExitError(ExitFailure, "ensuring database schema", err)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return WrapExitError(ExitFailure, "getting JWT secret", err)
	}

	if n, err := store.PurgeRevokedTokens(ctx, database, time.Now()); err != nil {
		slog.Warn("failed to purge revoked tokens", "error", err)
	} else if n > 0 {
		slog.Info("purged expired revoked tokens", "count", n)
	}

	var m *metrics.Metrics
	if cfg.Metrics {
		m = metrics.New()
	}
	handler := api.LoggingMiddleware(api.NewRouter(database, jwtSecret, m))

	server := &http.Server{
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", ln.Addr().String())
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}
