// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textlab/corpus-engine/pkg/types"
)

func TestFetch_UnknownSource(t *testing.T) {
	_, err := Fetch(context.Background(), http.DefaultClient, "jigsaw", types.DownloadConfig{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestHateXplain_DownloadsAndSkips(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "dataset.json"):
			w.Write([]byte(`{"post_1": {}}`))
		case strings.HasSuffix(r.URL.Path, "post_id_divisions.json"):
			w.Write([]byte(`{"train": ["post_1"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	orig := hatexplainBaseURL
	hatexplainBaseURL = ts.URL
	defer func() { hatexplainBaseURL = orig }()

	cfg := types.DownloadConfig{CorpusDir: t.TempDir()}
	var log bytes.Buffer

	result, err := HateXplain(context.Background(), ts.Client(), cfg, &log)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Downloaded)
	assert.False(t, result.HasFailures())

	dir := filepath.Join(cfg.CorpusDir, "raw", "hatexplain")
	for _, name := range []string{"dataset.json", "post_id_divisions.json", "metadata.yaml"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// Second run skips everything.
	result, err = HateXplain(context.Background(), ts.Client(), cfg, &log)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Downloaded)
	assert.Equal(t, 2, result.Skipped)
}

func TestHateXplain_RecordsFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	orig := hatexplainBaseURL
	hatexplainBaseURL = ts.URL
	defer func() { hatexplainBaseURL = orig }()

	var log bytes.Buffer
	result, err := HateXplain(context.Background(), ts.Client(), types.DownloadConfig{CorpusDir: t.TempDir()}, &log)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Failed)
	assert.True(t, result.HasFailures())
	assert.Contains(t, log.String(), "failed:")
}

func TestTextDetox_PagesSplit(t *testing.T) {
	// 150 rows per split forces two pages at page size 100.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		total := 150
		var page textdetoxPage
		page.NumRowsTotal = total
		for i := offset; i < total && i < offset+textdetoxPageSize; i++ {
			var row struct {
				Row struct {
					Text  string `json:"text"`
					Toxic int    `json:"toxic"`
				} `json:"row"`
			}
			row.Row.Text = "sample " + strconv.Itoa(i)
			row.Row.Toxic = i % 2
			page.Rows = append(page.Rows, row)
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer ts.Close()

	orig := textdetoxBaseURL
	textdetoxBaseURL = ts.URL
	defer func() { textdetoxBaseURL = orig }()

	cfg := types.DownloadConfig{CorpusDir: t.TempDir()}
	var log bytes.Buffer

	result, err := TextDetox(context.Background(), ts.Client(), cfg, &log)
	require.NoError(t, err)
	assert.Equal(t, len(textdetoxLanguages), result.Downloaded)

	data, err := os.ReadFile(filepath.Join(cfg.CorpusDir, "raw", "textdetox", "en.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 150)

	var row textdetoxRow
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &row))
	assert.Equal(t, "sample 0", row.Text)
	assert.Equal(t, "en", row.Language)
}
