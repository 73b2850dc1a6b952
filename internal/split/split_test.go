// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textlab/corpus-engine/pkg/types"
)

func TestStratKey(t *testing.T) {
	tests := []struct {
		name string
		rec  types.Record
		want string
	}{
		{"english toxic", types.Record{Label: types.IntPtr(1), Language: "en"}, "1_english_false"},
		{"hindi code-mixed", types.Record{Label: types.IntPtr(0), Language: "hi", CodeMixed: true}, "0_hindi_true"},
		{"hin alias", types.Record{Label: types.IntPtr(0), Language: "hin"}, "0_hindi_false"},
		{"other language", types.Record{Label: types.IntPtr(1), Language: "ru"}, "1_other_false"},
		{"unlabeled", types.Record{Language: "en"}, "-1_english_false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StratKey(tt.rec))
		})
	}
}

// corpus builds 100 records: 60 non-toxic english, 40 toxic hindi.
func corpus() types.Collection {
	var col types.Collection
	for i := 0; i < 60; i++ {
		col = append(col, types.Record{
			ID:       fmt.Sprintf("en_%d", i),
			Text:     fmt.Sprintf("english comment %d", i),
			Label:    types.IntPtr(0),
			Language: "en",
		})
	}
	for i := 0; i < 40; i++ {
		col = append(col, types.Record{
			ID:       fmt.Sprintf("hi_%d", i),
			Text:     fmt.Sprintf("hindi comment %d", i),
			Label:    types.IntPtr(1),
			Language: "hi",
		})
	}
	return col
}

func TestStratified_Proportions(t *testing.T) {
	splits, err := Stratified(corpus(), types.SplitConfig{})
	require.NoError(t, err)

	// Per stratum: 60 -> 42/9/9, 40 -> 28/6/6.
	assert.Len(t, splits.Train, 70)
	assert.Len(t, splits.Dev, 15)
	assert.Len(t, splits.Test, 15)

	// Every record lands in exactly one split.
	seen := map[string]int{}
	for _, part := range []types.Collection{splits.Train, splits.Dev, splits.Test} {
		for _, rec := range part {
			seen[rec.ID]++
		}
	}
	assert.Len(t, seen, 100)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestStratified_PreservesBalance(t *testing.T) {
	splits, err := Stratified(corpus(), types.SplitConfig{})
	require.NoError(t, err)

	counts := splits.Train.LabelCounts()
	assert.Equal(t, 42, counts[0])
	assert.Equal(t, 28, counts[1])

	counts = splits.Test.LabelCounts()
	assert.Equal(t, 9, counts[0])
	assert.Equal(t, 6, counts[1])
}

func TestStratified_Deterministic(t *testing.T) {
	a, err := Stratified(corpus(), types.SplitConfig{Seed: 7})
	require.NoError(t, err)
	b, err := Stratified(corpus(), types.SplitConfig{Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, a.Train.Texts(), b.Train.Texts())
	assert.Equal(t, a.Test.Texts(), b.Test.Texts())

	c, err := Stratified(corpus(), types.SplitConfig{Seed: 8})
	require.NoError(t, err)
	assert.NotEqual(t, a.Train.Texts(), c.Train.Texts())
}

func TestStratified_BadFractions(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.SplitConfig
	}{
		{"does not sum to one", types.SplitConfig{TrainFrac: 0.5, DevFrac: 0.2, TestFrac: 0.2}},
		{"negative fraction", types.SplitConfig{TrainFrac: 1.2, DevFrac: -0.1, TestFrac: -0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Stratified(corpus(), tt.cfg)
			require.Error(t, err)
		})
	}
}

func TestRun_WritesSplitsAndManifest(t *testing.T) {
	corpusDir := t.TempDir()
	dir := filepath.Join(corpusDir, "unified", "labeled")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	f, err := os.Create(filepath.Join(dir, "records.jsonl"))
	require.NoError(t, err)
	for _, rec := range corpus() {
		fmt.Fprintf(f, `{"id": %q, "text": %q, "label": %d, "language": %q}`+"\n",
			rec.ID, rec.Text, rec.LabelValue(), rec.Language)
	}
	require.NoError(t, f.Close())

	var log bytes.Buffer
	manifest, err := Run(types.SplitConfig{CorpusDir: corpusDir}, &log)
	require.NoError(t, err)

	assert.Equal(t, int64(42), manifest.Seed)
	assert.Equal(t, 70, manifest.Sizes["train"])
	assert.Equal(t, 15, manifest.Sizes["dev"])
	assert.Equal(t, 15, manifest.Sizes["test"])
	assert.Equal(t, 42, manifest.Labels["train"]["0"])
	assert.Equal(t, 60, manifest.StratKeys["0_english_false"])

	sf, err := os.Open(filepath.Join(corpusDir, "splits", "train.csv"))
	require.NoError(t, err)
	defer sf.Close()
	rows, err := csv.NewReader(sf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 71) // header + 70 records
	assert.Equal(t, []string{"id", "text", "label", "source", "language", "code_mixed"}, rows[0])

	_, err = os.Stat(filepath.Join(corpusDir, "splits", "manifest.yaml"))
	assert.NoError(t, err)
	assert.Contains(t, log.String(), "train: 70")
}

func TestRun_MissingCorpus(t *testing.T) {
	_, err := Run(types.SplitConfig{CorpusDir: t.TempDir()}, &bytes.Buffer{})
	require.Error(t, err)
}
