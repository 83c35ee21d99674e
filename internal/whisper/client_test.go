// SPDX-License-Identifier: EPL-2.0

package whisper_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audsqueeze/internal/whisper"
)

func TestTranscribe_SendsForm(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))
		assert.Equal(t, "segment", r.FormValue("timestamp_granularities"))

		f, hdr, err := r.FormFile("file")
		if assert.NoError(t, err) {
			defer f.Close()
			data, _ := io.ReadAll(f)
			assert.Equal(t, "meeting.wav", hdr.Filename)
			assert.Equal(t, "RIFFdata", string(data))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hi","segments":[]}`))
	}))
	defer srv.Close()

	c := whisper.NewClient("sk-test", whisper.WithURL(srv.URL), whisper.WithHTTPClient(srv.Client()))
	out, err := c.Transcribe(context.Background(), "meeting.wav", strings.NewReader("RIFFdata"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi","segments":[]}`, string(out))
}

func TestTranscribe_Model(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "whisper-large", r.FormValue("model"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := whisper.NewClient("k", whisper.WithURL(srv.URL), whisper.WithModel("whisper-large"))
	_, err := c.Transcribe(context.Background(), "a.mp3", strings.NewReader("x"))
	require.NoError(t, err)
}

func TestTranscribe_UpstreamError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		details string
	}{
		{"json body", `{"error":{"message":"Invalid file format."}}`, `{"error":{"message":"Invalid file format."}}`},
		{"non json body", `bad gateway`, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := whisper.NewClient("k", whisper.WithURL(srv.URL))
			_, err := c.Transcribe(context.Background(), "a.mp3", strings.NewReader("x"))

			var apiErr *whisper.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.JSONEq(t, tt.details, string(apiErr.Details()))
		})
	}
}

func TestTranscribe_NoRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := whisper.NewClient("k", whisper.WithURL(srv.URL))
	_, err := c.Transcribe(context.Background(), "a.mp3", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTranscribe_NotConfigured(t *testing.T) {
	t.Parallel()

	c := whisper.NewClient("")
	assert.False(t, c.Configured())

	_, err := c.Transcribe(context.Background(), "a.mp3", strings.NewReader("x"))
	assert.ErrorIs(t, err, whisper.ErrNoAPIKey)
}
