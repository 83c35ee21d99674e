// SPDX-License-Identifier: EPL-2.0

package transcode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"time"
)

// Source yields the path of an ffmpeg binary.
type Source interface {
	Name() string
	Resolve(ctx context.Context) (string, error)
}

// PathSource is an explicitly configured binary.
type PathSource struct {
	Path string
}

func (s PathSource) Name() string { return "path" }

func (s PathSource) Resolve(context.Context) (string, error) {
	if s.Path == "" {
		return "", ErrNotConfigured
	}
	if _, err := os.Stat(s.Path); err != nil {
		return "", fmt.Errorf("stat %s: %w", s.Path, err)
	}

	return s.Path, nil
}

// LookPathSource searches PATH for Binary, "ffmpeg" when empty.
type LookPathSource struct {
	Binary string
}

func (s LookPathSource) Name() string { return "lookpath" }

func (s LookPathSource) Resolve(context.Context) (string, error) {
	bin := s.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	p, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("look up %s: %w", bin, err)
	}

	return p, nil
}

// URLSource downloads a static ffmpeg build into CacheDir. A binary that is
// already cached is reused without contacting the server.
type URLSource struct {
	URL      string
	CacheDir string
	Client   *http.Client
}

func (s URLSource) Name() string { return "url:" + s.URL }

func (s URLSource) Resolve(ctx context.Context) (string, error) {
	if s.URL == "" {
		return "", ErrNotConfigured
	}

	u, err := url.Parse(s.URL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	target := cachePath(s.CacheDir, path.Base(u.Path))
	if isExecutable(target) {
		return target, nil
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %d", ErrDownload, s.URL, resp.StatusCode)
	}

	return install(target, resp.Body)
}

func cachePath(dir, name string) string {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "audsqueeze-ffmpeg")
	}
	if name == "" || name == "." || name == "/" {
		name = "ffmpeg"
	}

	return filepath.Join(dir, name)
}

func isExecutable(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

// install writes body to target through a temporary file in the same
// directory, so a partial download is never picked up as cached.
func install(target string, body io.Reader) (string, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	// #nosec G302 - the binary must be executable
	if err := os.Chmod(tmp.Name(), 0o755); err != nil {
		return "", fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("install binary: %w", err)
	}

	return target, nil
}
