// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/textlab/corpus-engine/internal/annotation"
	"github.com/textlab/corpus-engine/pkg/types"
)

var annotationCmd = &cobra.Command{
	Use:   "annotation",
	Short: "Manage the annotation round (pilot, iaa, export)",
	Long: `Annotation manages the human labeling round. pilot samples unlabeled
records into a Label Studio task file; iaa measures inter-annotator
agreement over an export; export aggregates the judgments into final
labels and an adjudication worksheet.`,
}

var annotationPilotCmd = &cobra.Command{
	Use:   "pilot",
	Short: "Sample unlabeled records into a pilot annotation batch",
	RunE:  runAnnotationPilot,
}

func runAnnotationPilot(cmd *cobra.Command, args []string) error {
	_, err := annotation.PreparePilot(annotationConfig(cmd), os.Stdout)
	return err
}

var annotationIAACmd = &cobra.Command{
	Use:   "iaa [export.json]",
	Short: "Compute inter-annotator agreement from a Label Studio export",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotationIAA,
}

func runAnnotationIAA(cmd *cobra.Command, args []string) error {
	report, err := annotation.RunIAA(annotationConfig(cmd), args[0], os.Stdout)
	if err != nil {
		return err
	}
	if report.MultiAnnotated == 0 {
		return fmt.Errorf("no multi-annotated tasks in export")
	}
	return nil
}

var annotationExportCmd = &cobra.Command{
	Use:   "export [export.json]",
	Short: "Aggregate annotations into final labels",
	Long: `Export majority-votes each task's annotations into a final label.
Tied votes are flagged for adjudication; pass --adjudications with the
filled-in worksheet to apply the decisions.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotationExport,
}

func runAnnotationExport(cmd *cobra.Command, args []string) error {
	cfg := annotationConfig(cmd)
	aggregated, err := annotation.ExportFinal(cfg, args[0], os.Stdout)
	if err != nil {
		return err
	}

	adjPath, _ := cmd.Flags().GetString("adjudications")
	if adjPath == "" {
		return nil
	}

	f, err := os.Open(adjPath)
	if err != nil {
		return fmt.Errorf("opening adjudications: %w", err)
	}
	defer f.Close()

	aggregated, applied, err := annotation.ApplyAdjudications(aggregated, f)
	if err != nil {
		return err
	}

	pending, err := annotation.WriteFinal(cfg, aggregated)
	if err != nil {
		return err
	}
	fmt.Printf("applied %d adjudication(s), %d still pending\n", applied, pending)
	return nil
}

func annotationConfig(cmd *cobra.Command) types.AnnotationConfig {
	size, _ := cmd.Flags().GetInt("pilot-size")
	seed, _ := cmd.Flags().GetInt64("seed")
	return types.AnnotationConfig{
		CorpusDir: corpusDir(cmd),
		PilotSize: size,
		Seed:      seed,
	}
}

func init() {
	annotationCmd.PersistentFlags().Int("pilot-size", 1000, "pilot sample size")
	annotationCmd.PersistentFlags().Int64("seed", 42, "sampling seed")

	annotationExportCmd.Flags().String("adjudications", "", "filled-in adjudication CSV to apply")

	annotationCmd.AddCommand(annotationPilotCmd)
	annotationCmd.AddCommand(annotationIAACmd)
	annotationCmd.AddCommand(annotationExportCmd)
	rootCmd.AddCommand(annotationCmd)
}
