// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/textlab/corpus-engine/internal/split"
	"github.com/textlab/corpus-engine/pkg/types"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Create stratified train/dev/test splits",
	Long: `Split partitions the labeled unified corpus into train, dev, and test
CSV files under corpus/splits/. Strata combine label, language group, and
code-mixed status; the seeded shuffle makes the split reproducible, and
the manifest records the seed and per-split distributions.`,
	RunE: runSplit,
}

func runSplit(cmd *cobra.Command, args []string) error {
	train, _ := cmd.Flags().GetFloat64("train")
	dev, _ := cmd.Flags().GetFloat64("dev")
	test, _ := cmd.Flags().GetFloat64("test")
	seed, _ := cmd.Flags().GetInt64("seed")

	cfg := types.SplitConfig{
		CorpusDir: corpusDir(cmd),
		TrainFrac: train,
		DevFrac:   dev,
		TestFrac:  test,
		Seed:      seed,
	}
	_, err := split.Run(cfg, os.Stdout)
	return err
}

func init() {
	splitCmd.Flags().Float64("train", 0.70, "training fraction")
	splitCmd.Flags().Float64("dev", 0.15, "development fraction")
	splitCmd.Flags().Float64("test", 0.15, "test fraction")
	splitCmd.Flags().Int64("seed", 42, "shuffle seed")

	rootCmd.AddCommand(splitCmd)
}
