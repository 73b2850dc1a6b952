// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/textlab/corpus-engine/pkg/types"
)

// hatexplainBaseURL serves the HateXplain data files. Declared as a var so
// tests can substitute an httptest server.
var hatexplainBaseURL = "https://raw.githubusercontent.com/hate-alert/HateXplain/master/Data"

// hatexplainFiles are the raw files the unify stage consumes: the full
// post map and the published train/val/test ID divisions.
var hatexplainFiles = []string{"dataset.json", "post_id_divisions.json"}

// HateXplain downloads the HateXplain dataset from the project's GitHub
// repository into corpus/raw/hatexplain/.
func HateXplain(ctx context.Context, client *http.Client, cfg types.DownloadConfig, w io.Writer) (Result, error) {
	dir := filepath.Join(cfg.CorpusDir, rawDir, SourceHateXplain)

	var result Result
	for _, name := range hatexplainFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
			result.Skipped++
			continue
		}

		url := hatexplainBaseURL + "/" + name
		fmt.Fprintf(w, "downloading: %s\n", name)
		if err := fetchToFile(ctx, client, url, path, cfg); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.Failed++
			continue
		}
		result.Downloaded++
	}

	if result.Downloaded > 0 {
		if err := writeMeta(dir, sourceMeta{
			Source:  SourceHateXplain,
			BaseURL: hatexplainBaseURL,
			Files:   hatexplainFiles,
		}); err != nil {
			return result, err
		}
	}

	fmt.Fprintf(w, "\nhatexplain: %d downloaded, %d skipped, %d failed\n",
		result.Downloaded, result.Skipped, result.Failed)
	return result, nil
}
