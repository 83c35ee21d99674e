// SPDX-License-Identifier: EPL-2.0

// Command audsqueeze shrinks an audio file to fit the transcription upload
// limit, sends it through the proxy and prints a timestamped transcript.
//
//	audsqueeze [-proxy URL] [-o transcript.txt] [-save out.wav] [-compress-only] <audio-file>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ik5/audsqueeze"
	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/compress"
	"github.com/ik5/audsqueeze/formats"
	"github.com/ik5/audsqueeze/internal/config"
	"github.com/ik5/audsqueeze/internal/transcript"
	"github.com/ik5/audsqueeze/transcode"
)

var errUsage = errors.New("usage: audsqueeze [flags] <audio-file>")

type options struct {
	proxy        string
	output       string
	save         string
	compressOnly bool
	threshold    int64
	input        string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		return err
	}

	logger := cfg.NewLoggerTo(stderr)

	data, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	in := audio.Input{Data: data, MIMEType: detectMIME(data, opts.input), Name: filepath.Base(opts.input)}

	sources, err := cfg.FFmpegSources(ctx)
	if err != nil {
		return err
	}
	engine := transcode.NewEngine(sources, transcode.WithLogger(logger))

	p := audsqueeze.New(
		audsqueeze.WithThreshold(opts.threshold),
		audsqueeze.WithLogger(logger),
		audsqueeze.WithStrategies(
			audsqueeze.RenderStrategy{Controller: compress.New(compress.WithLogger(logger)), Ceiling: compress.WorkingCeiling},
			audsqueeze.TranscodeStrategy{Engine: engine},
		),
	)

	out := p.Prepare(ctx, in, progressLine(stderr, "Preparing"))
	fmt.Fprintf(stderr, "%s: %s -> %s (%s)\n", in.Name, humanSize(in.Size()), humanSize(out.Size()), out.Name)
	if out.Size() > compress.UploadLimit {
		fmt.Fprintf(stderr, "warning: %s is still above the %s upload limit\n", out.Name, humanSize(compress.UploadLimit))
	}

	if opts.save != "" {
		if err := os.WriteFile(opts.save, out.Data, 0o644); err != nil {
			return fmt.Errorf("save prepared audio: %w", err)
		}
	}

	if opts.compressOnly {
		return nil
	}

	fmt.Fprintln(stderr, "Transcribing...")
	res, err := transcript.NewClient(opts.proxy, transcript.WithLogger(logger)).Transcribe(ctx, out)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	text := transcript.Format(res)
	if opts.output == "" {
		_, err = io.WriteString(stdout, text)
		return err
	}

	if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	fmt.Fprintf(stderr, "transcript written to %s\n", opts.output)

	return nil
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("audsqueeze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.proxy, "proxy", cfg.ProxyURL, "transcription proxy base URL")
	fs.StringVar(&opts.output, "o", "", "write the transcript to this file instead of stdout")
	fs.StringVar(&opts.save, "save", "", "also save the prepared audio to this file")
	fs.BoolVar(&opts.compressOnly, "compress-only", false, "prepare the audio and stop before uploading")
	fs.Int64Var(&opts.threshold, "threshold", cfg.CompressThreshold, "size in bytes above which the input is compressed")
	fs.Usage = func() {
		fmt.Fprintln(stderr, errUsage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errUsage
	}

	opts.input = fs.Arg(0)
	return opts, nil
}

// detectMIME sniffs the content and falls back to the extension.
func detectMIME(data []byte, name string) string {
	if f, err := formats.Detect(audio.Input{Data: data, Name: name}); err == nil {
		return formats.MIMEType(f)
	}

	return "application/octet-stream"
}

// progressLine redraws "label NN%" on one terminal line.
func progressLine(w io.Writer, label string) compress.ProgressFunc {
	return func(pct float64) {
		fmt.Fprintf(w, "\r%s %3.0f%%", label, pct)
		if pct >= 100 {
			fmt.Fprintln(w)
		}
	}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.2f %ciB", float64(n)/float64(div), "KMG"[exp])
}
