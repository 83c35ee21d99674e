// SPDX-License-Identifier: EPL-2.0

// Package server is the HTTP proxy between clients and the transcription
// API. Keys stay on the server.
package server

import (
	"log/slog"
	"net/http"

	"github.com/ik5/audsqueeze/internal/metrics"
)

type Config struct {
	AllowedOrigins []string
}

func DefaultConfig() Config {
	return Config{AllowedOrigins: []string{"*"}}
}

// NewRouter wires the routes and the middleware chain.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	// No method in the pattern: non-POST gets the JSON 405 from the handler.
	mux.HandleFunc("/api/transcribe", h.Transcribe)
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", h.metrics.Handler())

	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger, h.metrics),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}

// Metrics returns the metrics the handlers record into.
func (h *Handlers) Metrics() *metrics.Metrics { return h.metrics }
