// SPDX-License-Identifier: EPL-2.0

// Command transcribe-proxy forwards audio uploads to the transcription API
// so clients never hold the API key.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ik5/audsqueeze/internal/config"
	"github.com/ik5/audsqueeze/internal/metrics"
	"github.com/ik5/audsqueeze/internal/server"
	"github.com/ik5/audsqueeze/internal/whisper"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting transcribe proxy",
		slog.Int("port", cfg.Port),
		slog.String("upstream", cfg.UpstreamURL),
		slog.String("model", cfg.Model),
		slog.Bool("api_key_configured", cfg.APIKeyConfigured()),
		slog.Int64("max_upload_bytes", cfg.MaxUploadBytes),
	)
	if !cfg.APIKeyConfigured() {
		logger.Warn("OPENAI_API_KEY is not set, transcription requests will fail")
	}

	upstream := whisper.NewClient(cfg.OpenAIAPIKey,
		whisper.WithURL(cfg.UpstreamURL),
		whisper.WithModel(cfg.Model),
		whisper.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		whisper.WithLogger(logger),
	)

	handlers := server.NewHandlers(upstream, logger,
		server.WithMaxUpload(cfg.MaxUploadBytes),
		server.WithMetrics(metrics.New()),
	)
	router := server.NewRouter(handlers, logger, server.Config{AllowedOrigins: cfg.AllowedOrigins})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      cfg.UpstreamTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case sig := <-shutdownCh:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
