// SPDX-License-Identifier: EPL-2.0

package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/ik5/audsqueeze/audio"
)

const (
	DefaultProxyURL = "http://localhost:3000"
	transcribePath  = "/api/transcribe"
	fallbackMessage = "API returned an error"
)

// Client posts files to the transcription proxy.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

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

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultProxyURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Minute},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Transcribe uploads enc and decodes the segments of the answer.
func (c *Client) Transcribe(ctx context.Context, enc *audio.Encoded) (*Result, error) {
	if enc == nil || len(enc.Data) == 0 {
		return nil, ErrNoAudio
	}

	body, contentType, err := form(enc)
	if err != nil {
		return nil, fmt.Errorf("transcript: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+transcribePath, body)
	if err != nil {
		return nil, fmt.Errorf("transcript: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Info("uploading for transcription",
		slog.String("name", enc.Name),
		slog.Int64("size", enc.Size()))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcript: send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transcript: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamAPIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if res.Segments == nil {
		return nil, ErrInvalidResponse
	}

	return &res, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func form(enc *audio.Encoded) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	name := enc.Name
	if name == "" {
		name = "audio"
	}
	mimeType := enc.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	h.Set("Content-Type", mimeType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(enc.Data); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &body, mw.FormDataContentType(), nil
}

// errorMessage digs details.error.message out of a proxy error body.
func errorMessage(data []byte) string {
	var body struct {
		Details struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		} `json:"details"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Details.Error.Message == "" {
		return fallbackMessage
	}

	return body.Details.Error.Message
}
