// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/textlab/corpus-engine/internal/dedup"
	"github.com/textlab/corpus-engine/internal/unify"
	"github.com/textlab/corpus-engine/pkg/types"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup [dataset]",
	Short: "Remove exact and near duplicates from a unified dataset",
	Long: `Dedup rewrites a unified dataset (labeled or unlabeled, default
labeled) without duplicates. The exact pass collapses records whose
lowercased, whitespace-collapsed text matches; the near pass clusters
records by TF-IDF cosine similarity above the threshold.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"labeled", "unlabeled"},
	RunE:      runDedup,
}

func runDedup(cmd *cobra.Command, args []string) error {
	dataset := "labeled"
	if len(args) == 1 {
		dataset = args[0]
	}

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	keep, _ := cmd.Flags().GetString("keep")
	exactOnly, _ := cmd.Flags().GetBool("exact-only")
	batchSize, _ := cmd.Flags().GetInt("batch-size")

	cfg := types.DedupConfig{
		Exact:         true,
		Near:          !exactOnly,
		NearThreshold: threshold,
		BatchSize:     batchSize,
		Keep:          types.KeepPolicy(keep),
	}

	path := filepath.Join(corpusDir(cmd), "unified", dataset, "records.jsonl")
	records, err := unify.ReadRecords(path)
	if err != nil {
		return fmt.Errorf("loading %s dataset: %w", dataset, err)
	}

	deduped, stats, err := dedup.Deduplicate(records, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if err := unify.WriteRecords(path, deduped); err != nil {
		return err
	}

	fmt.Printf("rewrote %s: %d -> %d records (%.2f%% removed)\n",
		path, stats.OriginalSize, stats.FinalSize, stats.DedupRatePct)
	return nil
}

func init() {
	dedupCmd.Flags().Float64("threshold", 0.95, "near-duplicate cosine similarity threshold in (0, 1]")
	dedupCmd.Flags().String("keep", "first", "which record survives a duplicate cluster (first or last)")
	dedupCmd.Flags().Bool("exact-only", false, "skip the near-duplicate pass")
	dedupCmd.Flags().Int("batch-size", 1000, "similarity batch size")

	rootCmd.AddCommand(dedupCmd)
}
