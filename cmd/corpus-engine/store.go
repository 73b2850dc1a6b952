// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/textlab/corpus-engine/internal/corpus"
	"github.com/textlab/corpus-engine/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the SQLite corpus index (ingest, stats, export)",
	Long: `Store maintains a SQLite index of the unified corpus at
corpus/index/corpus.db. ingest loads the unified files incrementally,
stats prints aggregate counts, and export writes filtered records to CSV
or JSONL.`,
}

var storeIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the unified datasets into the index",
	RunE:  runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	store, err := openCorpusStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Ingest(context.Background(), os.Stdout)
	return err
}

var storeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate corpus counts",
	RunE:  runStoreStats,
}

func runStoreStats(cmd *cobra.Command, args []string) error {
	store, err := openCorpusStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(stats)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

var storeExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export filtered records to CSV or JSONL",
	Long: `Export writes indexed records to the given path. The format follows the
file extension (.csv or .jsonl); --dataset, --source, and --label filter
the rows.`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	store, err := openCorpusStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	dataset, _ := cmd.Flags().GetString("dataset")
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")
	q := corpus.Query{Dataset: dataset, Source: source, Limit: limit}
	if cmd.Flags().Changed("label") {
		label, _ := cmd.Flags().GetInt("label")
		q.Label = types.IntPtr(label)
	}

	path := args[0]
	ctx := context.Background()
	var n int
	switch {
	case strings.HasSuffix(path, ".csv"):
		n, err = store.ExportCSV(ctx, path, q)
	case strings.HasSuffix(path, ".jsonl"):
		n, err = store.ExportJSONL(ctx, path, q)
	default:
		return fmt.Errorf("unsupported export extension: %s (want .csv or .jsonl)", path)
	}
	if err != nil {
		return err
	}
	fmt.Printf("exported %d record(s) to %s\n", n, path)
	return nil
}

func openCorpusStore(cmd *cobra.Command) (*corpus.Store, error) {
	return corpus.NewStore(types.StoreConfig{CorpusDir: corpusDir(cmd)})
}

func init() {
	storeExportCmd.Flags().String("dataset", "", "filter by dataset (labeled or unlabeled)")
	storeExportCmd.Flags().String("source", "", "filter by source")
	storeExportCmd.Flags().Int("label", 0, "filter by label value (0 or 1)")
	storeExportCmd.Flags().Int("limit", 0, "maximum records to export (0 = all)")

	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeStatsCmd)
	storeCmd.AddCommand(storeExportCmd)
	rootCmd.AddCommand(storeCmd)
}
