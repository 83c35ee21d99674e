// SPDX-License-Identifier: EPL-2.0

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ik5/audsqueeze/internal/metrics"
	"github.com/ik5/audsqueeze/internal/whisper"
)

// DefaultMaxUpload matches the upstream upload limit.
const DefaultMaxUpload int64 = 25 << 20

// memory kept by ParseMultipartForm before spilling to disk.
const formMemory = 8 << 20

// Transcriber forwards one file upstream.
type Transcriber interface {
	Configured() bool
	Transcribe(ctx context.Context, filename string, file io.Reader) (json.RawMessage, error)
}

// Handlers contains the HTTP handlers of the proxy.
type Handlers struct {
	upstream  Transcriber
	metrics   *metrics.Metrics
	logger    *slog.Logger
	maxUpload int64
}

type HandlerOption func(*Handlers)

// WithMaxUpload limits the request body size.
func WithMaxUpload(n int64) HandlerOption {
	return func(h *Handlers) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handlers) { h.metrics = m }
}

func NewHandlers(upstream Transcriber, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		upstream:  upstream,
		logger:    logger,
		maxUpload: DefaultMaxUpload,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}

	return h
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Upstream: h.upstream.Configured()})
}

// Transcribe handles /api/transcribe: it relays the "file" form field to
// the transcription API and answers with its JSON.
func (h *Handlers) Transcribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, nil)
		return
	}

	log := loggerFrom(r.Context(), h.logger)

	if r.ContentLength > h.maxUpload {
		log.Warn("upload too large", slog.Int64("content_length", r.ContentLength))
		writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge, nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			log.Warn("upload too large", slog.Int64("limit", tooLarge.Limit))
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge, nil)
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			writeError(w, http.StatusBadRequest, msgNoFile, nil)
		default:
			log.Error("failed to parse form", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, msgServer, err.Error())
		}
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgNoFile, nil)
		return
	}
	defer file.Close()

	if !h.upstream.Configured() {
		log.Error("upstream API key is not configured")
		writeError(w, http.StatusInternalServerError, msgNoAPIKey, nil)
		return
	}

	h.metrics.RecordUpload(hdr.Size)
	done := h.metrics.StartTranscription()

	out, err := h.upstream.Transcribe(r.Context(), hdr.Filename, file)
	if err != nil {
		var apiErr *whisper.APIError
		if errors.As(err, &apiErr) {
			done("upstream")
			log.Warn("upstream rejected transcription",
				slog.Int("status", apiErr.Status),
				slog.String("body", string(apiErr.Body)))
			writeError(w, apiErr.Status, msgUpstream, apiErr.Details())
			return
		}

		done("server")
		log.Error("transcription failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, msgServer, err.Error())
		return
	}
	done("")

	log.Info("transcription relayed",
		slog.String("file", hdr.Filename),
		slog.Int64("size", hdr.Size),
		slog.Int("response_bytes", len(out)))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, message string, details any) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}
