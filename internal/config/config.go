// SPDX-License-Identifier: EPL-2.0

// Package config loads proxy and client settings from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"

	"github.com/ik5/audsqueeze/transcode"
)

var (
	ErrInvalid = errors.New("config: invalid value")
)

// Config holds every setting of the proxy and the CLI.
type Config struct {
	// Proxy
	Port            int           `env:"PORT, default=3000" validate:"min=1,max=65535"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	UpstreamURL     string        `env:"UPSTREAM_URL, default=https://api.openai.com/v1/audio/transcriptions" validate:"required,url"`
	Model           string        `env:"TRANSCRIBE_MODEL, default=whisper-1" validate:"required"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT, default=5m" validate:"gt=0"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES, default=26214400" validate:"gt=0"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS, default=*"`

	// Logging
	LogFormat string `env:"LOG_FORMAT, default=text" validate:"oneof=text json"`
	LogLevel  string `env:"LOG_LEVEL, default=info" validate:"oneof=debug info warn warning error"`

	// Client
	ProxyURL          string `env:"PROXY_URL, default=http://localhost:3000" validate:"required,url"`
	CompressThreshold int64  `env:"COMPRESS_THRESHOLD_BYTES, default=5242880" validate:"gte=0"`

	// ffmpeg distribution
	FFmpegPath     string `env:"FFMPEG_PATH"`
	FFmpegURL      string `env:"FFMPEG_URL" validate:"omitempty,url"`
	FFmpegCacheDir string `env:"FFMPEG_CACHE_DIR"`
	S3Bucket       string `env:"FFMPEG_S3_BUCKET"`
	S3Key          string `env:"FFMPEG_S3_KEY" validate:"required_with=S3Bucket"`
	S3Region       string `env:"FFMPEG_S3_REGION"`
	S3Endpoint     string `env:"FFMPEG_S3_ENDPOINT" validate:"omitempty,url"`

	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	return LoadWith(context.Background(), envconfig.OsLookuper())
}

// LoadWith reads settings from l and validates them.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalid, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// APIKeyConfigured reports whether the proxy can call upstream.
func (c *Config) APIKeyConfigured() bool { return c.OpenAIAPIKey != "" }

// S3Enabled reports whether an S3 ffmpeg source is configured.
func (c *Config) S3Enabled() bool { return c.S3Bucket != "" && c.S3Key != "" }

// S3 returns the S3 source settings.
func (c *Config) S3() transcode.S3Config {
	return transcode.S3Config{
		Bucket:          c.S3Bucket,
		Key:             c.S3Key,
		Region:          c.S3Region,
		Endpoint:        c.S3Endpoint,
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretAccessKey,
	}
}

// FFmpegSources builds the ordered ffmpeg sources: explicit path, PATH,
// HTTP download, S3 object.
func (c *Config) FFmpegSources(ctx context.Context) ([]transcode.Source, error) {
	var sources []transcode.Source

	if c.FFmpegPath != "" {
		sources = append(sources, transcode.PathSource{Path: c.FFmpegPath})
	}
	sources = append(sources, transcode.LookPathSource{Binary: "ffmpeg"})

	if c.FFmpegURL != "" {
		sources = append(sources, transcode.URLSource{URL: c.FFmpegURL, CacheDir: c.FFmpegCacheDir})
	}

	if c.S3Enabled() {
		s3src, err := transcode.NewS3Source(ctx, c.S3(), c.FFmpegCacheDir)
		if err != nil {
			return nil, fmt.Errorf("config: ffmpeg s3 source: %w", err)
		}
		sources = append(sources, s3src)
	}

	return sources, nil
}

// NewLogger writes to stdout in the configured format.
func (c *Config) NewLogger() *slog.Logger {
	return c.NewLoggerTo(os.Stdout)
}

// NewLoggerTo is NewLogger with an explicit writer.
func (c *Config) NewLoggerTo(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.LogLevel)}

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// String masks the API key and AWS credentials.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, OpenAIAPIKey: %s, UpstreamURL: %s, Model: %s, UpstreamTimeout: %s, MaxUploadBytes: %d, AllowedOrigins: %v, LogFormat: %s, LogLevel: %s, ProxyURL: %s, CompressThreshold: %d, FFmpegPath: %s, FFmpegURL: %s, S3Bucket: %s, S3Key: %s, AWSAccessKeyID: %s, AWSSecretAccessKey: %s}",
		c.Port,
		mask(c.OpenAIAPIKey),
		c.UpstreamURL,
		c.Model,
		c.UpstreamTimeout,
		c.MaxUploadBytes,
		c.AllowedOrigins,
		c.LogFormat,
		c.LogLevel,
		c.ProxyURL,
		c.CompressThreshold,
		c.FFmpegPath,
		c.FFmpegURL,
		c.S3Bucket,
		c.S3Key,
		mask(c.AWSAccessKeyID),
		mask(c.AWSSecretAccessKey),
	)
}

func mask(s string) string {
	if s == "" {
		return "<unset>"
	}
	return "****"
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
