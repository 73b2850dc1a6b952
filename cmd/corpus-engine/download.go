// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/textlab/corpus-engine/internal/download"
	"github.com/textlab/corpus-engine/pkg/types"
)

var downloadCmd = &cobra.Command{
	Use:   "download [source]",
	Short: "Fetch the public source corpora into corpus/raw/",
	Long: `Download fetches the labeled source corpora: hatexplain (GitHub raw) and
textdetox (Hugging Face datasets-server). With no argument both sources are
fetched. Files already on disk are skipped, so reruns only fill gaps.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg := types.DownloadConfig{
		HTTPConfig: httpConfig(),
		CorpusDir:  corpusDir(cmd),
	}
	client := &http.Client{Timeout: cfg.Timeout}

	sources := []string{download.SourceHateXplain, download.SourceTextDetox}
	if len(args) == 1 {
		sources = args
	}

	failed := 0
	for _, source := range sources {
		result, err := download.Fetch(context.Background(), client, source, cfg, os.Stdout)
		if err != nil {
			return err
		}
		failed += result.Failed
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to download", failed)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}
