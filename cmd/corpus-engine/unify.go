// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/textlab/corpus-engine/internal/unify"
	"github.com/textlab/corpus-engine/pkg/types"
)

var unifyCmd = &cobra.Command{
	Use:   "unify",
	Short: "Standardize raw sources into the unified record schema",
	Long: `Unify maps every available raw source (hatexplain, textdetox, jigsaw,
reddit, youtube) to the unified record schema: normalized text, binary
labels, detected language, and code-mixed flags. Output lands in
corpus/unified/ split into labeled and unlabeled files.`,
	RunE: runUnify,
}

func runUnify(cmd *cobra.Command, args []string) error {
	preset, _ := cmd.Flags().GetString("preset")
	minLength, _ := cmd.Flags().GetInt("min-length")

	cfg := types.UnifyConfig{
		CorpusDir: corpusDir(cmd),
		Preset:    preset,
		MinLength: minLength,
	}
	_, err := unify.Run(cfg, os.Stdout)
	return err
}

func init() {
	unifyCmd.Flags().String("preset", "code_mixed", "normalization preset (default, strict, minimal, code_mixed)")
	unifyCmd.Flags().Int("min-length", 10, "drop records with shorter normalized text")

	rootCmd.AddCommand(unifyCmd)
}
