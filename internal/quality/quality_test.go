// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/textlab/corpus-engine/pkg/types"
)

func labeledCollection() types.Collection {
	return types.Collection{
		{ID: "a", Text: "a perfectly reasonable comment", Label: types.IntPtr(0), Source: "test", Language: "en"},
		{ID: "b", Text: "an extremely rude comment here", Label: types.IntPtr(1), Source: "test", Language: "en"},
		{ID: "c", Text: "yaar yeh sab bahut kharab hai", Label: types.IntPtr(1), Source: "test", Language: "hi", CodeMixed: true},
		{ID: "d", Text: "another calm and neutral remark", Label: types.IntPtr(0), Source: "test", Language: "en"},
	}
}

func TestValidate_CleanDataset(t *testing.T) {
	var log bytes.Buffer
	report := Validate(labeledCollection(), "labeled", &log)

	assert.True(t, report.Passed())
	assert.Equal(t, 4, report.Records)
	assert.Equal(t, 2, report.Labels["0"])
	assert.Equal(t, 2, report.Labels["1"])
	assert.InDelta(t, 1.0, report.BalanceRatio, 1e-9)
	assert.Equal(t, 1, report.CodeMixed)
	assert.Equal(t, 2, len(report.Languages))
	assert.Zero(t, report.DuplicateRate)
	assert.Contains(t, log.String(), "[ok]")
}

func TestValidate_DuplicateIDs(t *testing.T) {
	col := types.Collection{
		{ID: "a", Text: "some text that is long enough"},
		{ID: "a", Text: "different text that is long enough"},
	}
	report := Validate(col, "labeled", &bytes.Buffer{})
	assert.False(t, report.Passed())
	assert.False(t, report.Checks[0].Passed)
}

func TestValidate_EmptyText(t *testing.T) {
	col := types.Collection{
		{ID: "a", Text: "a normal comment of usual length", Label: types.IntPtr(0)},
		{ID: "b", Text: "   ", Label: types.IntPtr(1)},
	}
	report := Validate(col, "labeled", &bytes.Buffer{})
	assert.False(t, report.Passed())
	assert.Equal(t, 1, report.Text.Empty)
	assert.Equal(t, 1, report.Text.VeryShort)
}

func TestValidate_TextStats(t *testing.T) {
	col := types.Collection{
		{ID: "a", Text: "aaaa"},       // 4
		{ID: "b", Text: "aaaaaa"},     // 6
		{ID: "c", Text: "aaaaaaaaaa"}, // 10
	}
	report := Validate(col, "unlabeled", &bytes.Buffer{})
	assert.Equal(t, 4, report.Text.Min)
	assert.Equal(t, 10, report.Text.Max)
	assert.InDelta(t, 20.0/3, report.Text.Mean, 1e-9)
	assert.InDelta(t, 6.0, report.Text.Median, 1e-9)
	assert.Equal(t, 2, report.Text.VeryShort)
}

func TestValidate_InvalidLabel(t *testing.T) {
	col := types.Collection{
		{ID: "a", Text: "a comment with a bogus label", Label: types.IntPtr(3)},
	}
	report := Validate(col, "labeled", &bytes.Buffer{})
	assert.False(t, report.Passed())
}

func TestValidate_HighImbalance(t *testing.T) {
	col := types.Collection{{ID: "x0", Text: "the lone toxic comment in the set", Label: types.IntPtr(1)}}
	for i := 0; i < 20; i++ {
		col = append(col, types.Record{
			ID:    string(rune('a' + i)),
			Text:  "benign filler comment number " + string(rune('a'+i)),
			Label: types.IntPtr(0),
		})
	}
	report := Validate(col, "labeled", &bytes.Buffer{})
	assert.False(t, report.Passed())
	assert.Less(t, report.BalanceRatio, 0.1)
}

func TestValidate_DuplicateTolerance(t *testing.T) {
	// 2 duplicates in 10 records: 20% rate passes unlabeled, fails labeled.
	col := types.Collection{}
	for i := 0; i < 8; i++ {
		col = append(col, types.Record{
			ID:   string(rune('a' + i)),
			Text: "unique comment number " + string(rune('a'+i)),
		})
	}
	col = append(col,
		types.Record{ID: "dup1", Text: "unique comment number a"},
		types.Record{ID: "dup2", Text: "UNIQUE   comment number a"},
	)

	unlabeled := Validate(col, "unlabeled", &bytes.Buffer{})
	assert.True(t, unlabeled.Passed())
	assert.InDelta(t, 0.2, unlabeled.DuplicateRate, 1e-9)

	labeled := Validate(col, "labeled", &bytes.Buffer{})
	assert.False(t, labeled.Passed())
}

func TestRun_WritesReport(t *testing.T) {
	corpusDir := t.TempDir()
	dir := filepath.Join(corpusDir, "unified", "labeled")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	lines := `{"id": "a", "text": "a perfectly reasonable comment", "label": 0, "source": "test", "language": "en"}
{"id": "b", "text": "an extremely rude comment here", "label": 1, "source": "test", "language": "en"}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "records.jsonl"), []byte(lines), 0o644))

	var log bytes.Buffer
	reports, err := Run(corpusDir, &log)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Passed())
	assert.Contains(t, log.String(), "skipped: unlabeled")

	data, err := os.ReadFile(filepath.Join(corpusDir, "reports", "quality_report.yaml"))
	require.NoError(t, err)
	var parsed []Report
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "labeled", parsed[0].Dataset)
}

func TestRun_NoData(t *testing.T) {
	_, err := Run(t.TempDir(), &bytes.Buffer{})
	require.Error(t, err)
}
