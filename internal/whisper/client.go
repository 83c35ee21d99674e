// SPDX-License-Identifier: EPL-2.0

// Package whisper talks to an OpenAI-compatible transcription endpoint.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	DefaultURL   = "https://api.openai.com/v1/audio/transcriptions"
	DefaultModel = "whisper-1"

	responseFormat = "verbose_json"
	granularity    = "segment"
)

var (
	ErrNoAPIKey = errors.New("whisper: api key not configured")
	ErrNoFile   = errors.New("whisper: no audio file")
)

// APIError is a non-2xx answer from upstream. Body is the raw response.
type APIError struct {
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whisper: upstream returned %d", e.Status)
}

// Details returns Body when it is JSON, and an empty object otherwise.
func (e *APIError) Details() json.RawMessage {
	if json.Valid(e.Body) {
		return json.RawMessage(e.Body)
	}
	return json.RawMessage("{}")
}

// Client posts audio to the transcription API. It never retries.
type Client struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
	logger *slog.Logger
}

type Option func(*Client)

func WithURL(u string) Option {
	return func(c *Client) { c.url = u }
}

func WithModel(m string) Option {
	return func(c *Client) { c.model = m }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		url:    DefaultURL,
		apiKey: apiKey,
		model:  DefaultModel,
		http:   &http.Client{Timeout: 5 * time.Minute},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Transcribe uploads file and returns the upstream JSON as is.
func (c *Client) Transcribe(ctx context.Context, filename string, file io.Reader) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}
	if file == nil {
		return nil, ErrNoFile
	}

	body, contentType, err := c.form(filename, file)
	if err != nil {
		return nil, fmt.Errorf("whisper: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("whisper: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper: send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whisper: read response: %w", err)
	}

	c.logger.Debug("upstream responded",
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: data}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("whisper: upstream returned invalid JSON")
	}

	return json.RawMessage(data), nil
}

func (c *Client) form(filename string, file io.Reader) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"model", c.model},
		{"response_format", responseFormat},
		{"timestamp_granularities", granularity},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &body, mw.FormDataContentType(), nil
}
