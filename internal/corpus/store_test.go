// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textlab/corpus-engine/pkg/types"
)

// seedUnified writes a labeled and an unlabeled unified file.
func seedUnified(t *testing.T, corpusDir string) {
	t.Helper()
	labeledDir := filepath.Join(corpusDir, "unified", "labeled")
	require.NoError(t, os.MkdirAll(labeledDir, 0o755))
	labeled := `{"id": "a", "text": "a neutral comment", "label": 0, "source": "hatexplain", "language": "en"}
{"id": "b", "text": "a toxic comment", "label": 1, "source": "hatexplain", "language": "en"}
{"id": "c", "text": "ek aur comment yaar", "label": 1, "source": "textdetox", "language": "hi", "code_mixed": true, "metadata": {"language_file": "hi"}}
`
	require.NoError(t, os.WriteFile(filepath.Join(labeledDir, "records.jsonl"), []byte(labeled), 0o644))

	unlabeledDir := filepath.Join(corpusDir, "unified", "unlabeled")
	require.NoError(t, os.MkdirAll(unlabeledDir, 0o755))
	unlabeled := `{"id": "d", "text": "an unlabeled comment", "source": "reddit", "language": "en"}
`
	require.NoError(t, os.WriteFile(filepath.Join(unlabeledDir, "records.jsonl"), []byte(unlabeled), 0o644))
}

func openStore(t *testing.T, corpusDir string) *Store {
	t.Helper()
	store, err := NewStore(types.StoreConfig{CorpusDir: corpusDir})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestIngest_AndStats(t *testing.T) {
	corpusDir := t.TempDir()
	seedUnified(t, corpusDir)
	store := openStore(t, corpusDir)

	var log bytes.Buffer
	summary, err := store.Ingest(context.Background(), &log)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Ingested)
	assert.Zero(t, summary.Skipped)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Records)
	assert.Equal(t, 3, stats.Labeled)
	assert.Equal(t, 2, stats.Toxic)
	assert.Equal(t, 1, stats.CodeMixed)
	assert.Equal(t, 2, stats.BySource["hatexplain"])
	assert.Equal(t, 1, stats.BySource["reddit"])
	assert.Equal(t, 1, stats.ByLang["hi"])
}

func TestIngest_SkipsUnchanged(t *testing.T) {
	corpusDir := t.TempDir()
	seedUnified(t, corpusDir)
	store := openStore(t, corpusDir)

	_, err := store.Ingest(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	var log bytes.Buffer
	summary, err := store.Ingest(context.Background(), &log)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Skipped)
	assert.Zero(t, summary.Ingested)
	assert.Contains(t, log.String(), "unchanged")
}

func TestIngest_ReloadsChangedFile(t *testing.T) {
	corpusDir := t.TempDir()
	seedUnified(t, corpusDir)
	store := openStore(t, corpusDir)

	_, err := store.Ingest(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	// Rewrite the labeled file with one record and bump the mod time.
	path := filepath.Join(corpusDir, "unified", "labeled", "records.jsonl")
	line := `{"id": "z", "text": "the only remaining comment", "label": 0, "source": "hatexplain", "language": "en"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(line), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	summary, err := store.Ingest(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)

	records, err := store.Records(context.Background(), Query{Dataset: "labeled"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "z", records[0].ID)
}

func TestRecords_Filters(t *testing.T) {
	corpusDir := t.TempDir()
	seedUnified(t, corpusDir)
	store := openStore(t, corpusDir)
	_, err := store.Ingest(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	ctx := context.Background()

	toxic, err := store.Records(ctx, Query{Label: types.IntPtr(1)})
	require.NoError(t, err)
	assert.Len(t, toxic, 2)

	reddit, err := store.Records(ctx, Query{Source: "reddit"})
	require.NoError(t, err)
	require.Len(t, reddit, 1)
	assert.Nil(t, reddit[0].Label)

	limited, err := store.Records(ctx, Query{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	withMeta, err := store.Records(ctx, Query{Source: "textdetox"})
	require.NoError(t, err)
	require.Len(t, withMeta, 1)
	assert.Equal(t, "hi", withMeta[0].Metadata["language_file"])
}

func TestExport(t *testing.T) {
	corpusDir := t.TempDir()
	seedUnified(t, corpusDir)
	store := openStore(t, corpusDir)
	_, err := store.Ingest(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	ctx := context.Background()

	jsonlPath := filepath.Join(corpusDir, "export", "labeled.jsonl")
	n, err := store.ExportJSONL(ctx, jsonlPath, Query{Dataset: "labeled"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	csvPath := filepath.Join(corpusDir, "export", "all.csv")
	n, err = store.ExportCSV(ctx, csvPath, Query{})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, []string{"id", "text", "label", "source", "language", "code_mixed"}, rows[0])
}

func TestIngest_MissingFiles(t *testing.T) {
	store := openStore(t, t.TempDir())

	var log bytes.Buffer
	summary, err := store.Ingest(context.Background(), &log)
	require.NoError(t, err)
	assert.Zero(t, summary.Total())
	assert.Contains(t, log.String(), "no unified file")
}
