// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/textlab/corpus-engine/internal/quality"
)

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Validate the unified corpus and write a quality report",
	Long: `Quality runs schema, text, label, and duplicate checks over the unified
labeled and unlabeled datasets and writes corpus/reports/quality_report.yaml.
The command fails when any check fails, so it gates the annotation and
split stages in scripted runs.`,
	RunE: runQuality,
}

func runQuality(cmd *cobra.Command, args []string) error {
	reports, err := quality.Run(corpusDir(cmd), os.Stdout)
	if err != nil {
		return err
	}
	for _, report := range reports {
		if !report.Passed() {
			return fmt.Errorf("quality checks failed for %s dataset", report.Dataset)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(qualityCmd)
}
