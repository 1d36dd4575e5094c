package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/txn_processor/internal/adapters/csvio"
	"github.com/SscSPs/txn_processor/internal/core/services"
	"github.com/SscSPs/txn_processor/internal/handlers"
	"github.com/SscSPs/txn_processor/internal/platform/config"
	"github.com/SscSPs/txn_processor/internal/platform/logging"
	"github.com/SscSPs/txn_processor/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2

	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one CLI invocation. Account CSV goes to stdout, logs go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		printUsage(stderr)
		return exitUsage
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return exitError
	}

	logger, err := logging.New(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return exitError
	}
	slog.SetDefault(logger)

	if args[0] == "serve" {
		return serve(ctx, cfg, logger)
	}
	return replayFile(ctx, cfg, logger, args[0], stdout)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  txn_processor <path-to-transaction-file>   replay a CSV file, print accounts to stdout")
	fmt.Fprintln(w, "  txn_processor serve                        start the HTTP server")
}

func replayFile(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string, stdout io.Writer) int {
	logger.Info("Input CSV file", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		logger.Error("Failed to open input", slog.String("error", err.Error()))
		return exitError
	}
	defer f.Close()

	container := services.NewServiceContainer(nil)
	report, err := container.Replay.Replay(ctx, csvio.NewReader(f, csvio.WithLogger(logger)))
	if err != nil {
		logger.Error("Replay failed", slog.String("error", err.Error()))
		return exitError
	}

	if err := csvio.NewWriter(stdout, cfg.OutputPrecision).WriteAccounts(report.Accounts); err != nil {
		logger.Error("Failed to write accounts", slog.String("error", err.Error()))
		return exitError
	}
	return exitOK
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) int {
	registry := prometheus.NewRegistry()
	container := services.NewServiceContainer(metrics.NewRecorder(registry))

	r, err := handlers.NewRouter(cfg, logger, container, registry)
	if err != nil {
		logger.Error("Failed to build router", slog.String("error", err.Error()))
		return exitError
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.Bool("auth_enabled", cfg.JWTSecret != ""))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			return exitError
		}
		return exitOK
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
		return exitError
	}
	return exitOK
}
