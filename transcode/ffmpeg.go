// SPDX-License-Identifier: EPL-2.0

package transcode

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/compress"
)

// Output settings: mono, 16 kHz, 24 kbit/s MP3.
const (
	Channels   = 1
	SampleRate = 16000
	Bitrate    = "24k"
	MIMEType   = "audio/mpeg"
	Suffix     = ".mp3"
)

// Args returns the ffmpeg arguments that transcode src into dst.
func Args(src, dst string) []string {
	return []string{
		"-y", // Overwrite output file without asking
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-vn", // Drop cover art and video streams
		"-ac", strconv.Itoa(Channels),
		"-ar", strconv.Itoa(SampleRate),
		"-b:a", Bitrate,
		"-f", "mp3",
		dst,
	}
}

// Transcode converts in to a small MP3 with ffmpeg, initialising the engine
// on first use. Progress goes 20 (engine ready), 40 (input staged),
// 80 (transcoded), 90 (read back) and 100.
func (e *Engine) Transcode(ctx context.Context, in audio.Input, onProgress compress.ProgressFunc) (*audio.Encoded, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}

	progress := compress.NewTracker(onProgress)

	bin, err := e.Init(ctx)
	if err != nil {
		return nil, err
	}
	progress.Report(20)

	dir, err := os.MkdirTemp(e.tempDir, "audsqueeze-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	ext := filepath.Ext(filepath.Base(in.Name))
	if ext == "" {
		ext = ".bin"
	}
	src := filepath.Join(dir, "input"+ext)
	dst := filepath.Join(dir, "output"+Suffix)

	if err := os.WriteFile(src, in.Data, 0o600); err != nil {
		return nil, fmt.Errorf("stage input: %w", err)
	}
	progress.Report(40)

	if err := run(ctx, bin, Args(src, dst)); err != nil {
		return nil, err
	}
	progress.Report(80)

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	progress.Report(90)

	e.logger.Info("transcoded with ffmpeg",
		slog.String("name", in.Name),
		slog.Int64("input_size", in.Size()),
		slog.Int("output_size", len(data)))

	progress.Done()

	return &audio.Encoded{Data: data, MIMEType: MIMEType, Name: in.Rename(Suffix)}, nil
}

func run(ctx context.Context, bin string, args []string) error {
	// #nosec G204 - bin is resolved by the engine, not user input
	cmd := exec.CommandContext(ctx, bin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if context was cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &ExecError{Args: args, Stderr: stderr.String(), Err: err}
	}

	return nil
}
