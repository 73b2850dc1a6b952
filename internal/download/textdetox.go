// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/textlab/corpus-engine/internal/httputil"
	"github.com/textlab/corpus-engine/pkg/types"
)

// textdetoxBaseURL is the Hugging Face datasets-server endpoint. Declared
// as a var so tests can substitute an httptest server.
var textdetoxBaseURL = "https://datasets-server.huggingface.co"

const (
	textdetoxDataset  = "textdetox/multilingual_toxicity_dataset"
	textdetoxPageSize = 100
)

// textdetoxLanguages are the dataset splits fetched, one per language.
var textdetoxLanguages = []string{"en", "ru", "uk", "hi", "ar", "zh", "es", "de", "am"}

// textdetoxPage mirrors the datasets-server /rows response shape.
type textdetoxPage struct {
	Rows []struct {
		Row struct {
			Text  string `json:"text"`
			Toxic int    `json:"toxic"`
		} `json:"row"`
	} `json:"rows"`
	NumRowsTotal int `json:"num_rows_total"`
}

// textdetoxRow is one JSONL line written to the raw split files.
type textdetoxRow struct {
	Text     string `json:"text"`
	Toxic    int    `json:"toxic"`
	Language string `json:"language"`
}

// TextDetox pages the multilingual toxicity dataset through the Hugging
// Face datasets-server rows API, writing one JSONL file per language split
// into corpus/raw/textdetox/.
func TextDetox(ctx context.Context, client *http.Client, cfg types.DownloadConfig, w io.Writer) (Result, error) {
	dir := filepath.Join(cfg.CorpusDir, rawDir, SourceTextDetox)

	var result Result
	for _, lang := range textdetoxLanguages {
		path := filepath.Join(dir, lang+".jsonl")
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", lang)
			result.Skipped++
			continue
		}

		fmt.Fprintf(w, "downloading: %s split\n", lang)
		n, err := fetchTextdetoxSplit(ctx, client, lang, path, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", lang, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "wrote %d rows to %s\n", n, path)
		result.Downloaded++
	}

	if result.Downloaded > 0 {
		if err := writeMeta(dir, sourceMeta{
			Source:  SourceTextDetox,
			BaseURL: textdetoxBaseURL,
			Files:   append([]string(nil), textdetoxLanguages...),
		}); err != nil {
			return result, err
		}
	}

	fmt.Fprintf(w, "\ntextdetox: %d splits downloaded, %d skipped, %d failed\n",
		result.Downloaded, result.Skipped, result.Failed)
	return result, nil
}

// fetchTextdetoxSplit pages one language split to a JSONL file, returning
// the number of rows written. The temp-then-rename pattern keeps partial
// pagination from leaving a truncated split behind.
func fetchTextdetoxSplit(ctx context.Context, client *http.Client, lang, path string, cfg types.DownloadConfig) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".split-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	buf := bufio.NewWriter(tmp)
	enc := json.NewEncoder(buf)

	written := 0
	for offset := 0; ; offset += textdetoxPageSize {
		page, err := fetchTextdetoxPage(ctx, client, lang, offset, cfg)
		if err != nil {
			tmp.Close()
			return 0, err
		}

		for _, r := range page.Rows {
			if err := enc.Encode(textdetoxRow{Text: r.Row.Text, Toxic: r.Row.Toxic, Language: lang}); err != nil {
				tmp.Close()
				return 0, fmt.Errorf("encoding row: %w", err)
			}
			written++
		}

		if len(page.Rows) < textdetoxPageSize || written >= page.NumRowsTotal {
			break
		}
	}

	if err := buf.Flush(); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	return written, os.Rename(tmp.Name(), path)
}

func fetchTextdetoxPage(ctx context.Context, client *http.Client, lang string, offset int, cfg types.DownloadConfig) (*textdetoxPage, error) {
	params := url.Values{
		"dataset": {textdetoxDataset},
		"config":  {"default"},
		"split":   {lang},
		"offset":  {fmt.Sprintf("%d", offset)},
		"length":  {fmt.Sprintf("%d", textdetoxPageSize)},
	}
	reqURL := textdetoxBaseURL + "/rows?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("datasets-server request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("datasets-server returned HTTP %d", resp.StatusCode)
	}

	var page textdetoxPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("parsing datasets-server response: %w", err)
	}
	return &page, nil
}
