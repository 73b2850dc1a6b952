// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download fetches the public source corpora into corpus/raw/.
// Each source writes its raw files plus a metadata sidecar recording what
// was fetched and when. Downloads are idempotent: files already on disk
// are skipped.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/textlab/corpus-engine/internal/httputil"
	"github.com/textlab/corpus-engine/pkg/types"
)

// rawDir is the subdirectory under the corpus base for raw source files.
const rawDir = "raw"

// Source names accepted by Fetch.
const (
	SourceHateXplain = "hatexplain"
	SourceTextDetox  = "textdetox"
)

// Result holds the outcome of a download run.
type Result struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the number of files processed.
func (r Result) Total() int { return r.Downloaded + r.Skipped + r.Failed }

// HasFailures reports whether any file failed to download.
func (r Result) HasFailures() bool { return r.Failed > 0 }

// sourceMeta is the YAML sidecar written next to each source's raw files.
type sourceMeta struct {
	Source       string   `yaml:"source"`
	BaseURL      string   `yaml:"base_url"`
	Files        []string `yaml:"files"`
	DownloadedAt string   `yaml:"downloaded_at"`
}

// Fetch downloads the named source corpus. Unknown source names are a
// configuration error, returned before any network traffic.
func Fetch(ctx context.Context, client *http.Client, source string, cfg types.DownloadConfig, w io.Writer) (Result, error) {
	switch source {
	case SourceHateXplain:
		return HateXplain(ctx, client, cfg, w)
	case SourceTextDetox:
		return TextDetox(ctx, client, cfg, w)
	default:
		return Result{}, fmt.Errorf("unknown source: %q (want %s or %s)", source, SourceHateXplain, SourceTextDetox)
	}
}

// fetchToFile downloads url into path via a temp file renamed on success,
// so a partial download never leaves a truncated file behind.
func fetchToFile(ctx context.Context, client *http.Client, url, path string, cfg types.DownloadConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}

// writeMeta writes the metadata sidecar for a source directory.
func writeMeta(dir string, meta sourceMeta) error {
	meta.DownloadedAt = time.Now().UTC().Format(time.RFC3339)
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "metadata.yaml"), data, 0o644)
}
