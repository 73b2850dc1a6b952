// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotation prepares pilot annotation batches, parses Label
// Studio exports, measures inter-annotator agreement, and aggregates
// multiple judgments per item into final labels.
package annotation

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/textlab/corpus-engine/internal/unify"
	"github.com/textlab/corpus-engine/pkg/types"
)

const (
	defaultPilotSize = 1000
	defaultSeed      = 42
)

// PilotSample selects records for the pilot annotation round. Half the
// sample is reserved for code-mixed records when enough exist, since those
// are the hardest cases and the reason for the pilot; any shortfall on
// either side is filled from the other pool. The result is shuffled so
// annotators see the two pools interleaved.
func PilotSample(col types.Collection, size int, seed int64) types.Collection {
	if size <= 0 {
		size = defaultPilotSize
	}
	if seed == 0 {
		seed = defaultSeed
	}
	if size >= len(col) {
		size = len(col)
	}

	var codeMixed, regular types.Collection
	for _, rec := range col {
		if rec.CodeMixed {
			codeMixed = append(codeMixed, rec)
		} else {
			regular = append(regular, rec)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(codeMixed), func(i, j int) { codeMixed[i], codeMixed[j] = codeMixed[j], codeMixed[i] })
	rng.Shuffle(len(regular), func(i, j int) { regular[i], regular[j] = regular[j], regular[i] })

	nMixed := size / 2
	if nMixed > len(codeMixed) {
		nMixed = len(codeMixed)
	}
	nRegular := size - nMixed
	if nRegular > len(regular) {
		nRegular = len(regular)
		// Backfill from the code-mixed pool.
		if extra := size - nMixed - nRegular; extra > 0 && nMixed+extra <= len(codeMixed) {
			nMixed += extra
		} else if extra > 0 {
			nMixed = len(codeMixed)
		}
	}

	sample := append(types.Collection{}, codeMixed[:nMixed]...)
	sample = append(sample, regular[:nRegular]...)
	rng.Shuffle(len(sample), func(i, j int) { sample[i], sample[j] = sample[j], sample[i] })
	return sample
}

// task is the Label Studio import shape: each task wraps its payload in a
// "data" object.
type task struct {
	Data taskData `json:"data"`
}

type taskData struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Source    string `json:"source"`
	Language  string `json:"language"`
	CodeMixed bool   `json:"code_mixed"`
}

// WriteTasks writes records as a Label Studio task import file.
func WriteTasks(path string, col types.Collection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tasks := make([]task, len(col))
	for i, rec := range col {
		tasks[i] = task{Data: taskData{
			ID:        rec.ID,
			Text:      rec.Text,
			Source:    rec.Source,
			Language:  rec.Language,
			CodeMixed: rec.CodeMixed,
		}}
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling tasks: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PreparePilot samples the unlabeled corpus and writes the pilot task file
// under corpus/annotation/tasks/.
func PreparePilot(cfg types.AnnotationConfig, w io.Writer) (int, error) {
	records, err := unify.ReadRecords(filepath.Join(cfg.CorpusDir, "unified", "unlabeled", "records.jsonl"))
	if err != nil {
		return 0, fmt.Errorf("loading unlabeled corpus: %w", err)
	}

	sample := PilotSample(records, cfg.PilotSize, cfg.Seed)
	path := filepath.Join(cfg.CorpusDir, "annotation", "tasks", "pilot_tasks.json")
	if err := WriteTasks(path, sample); err != nil {
		return 0, err
	}

	mixed := 0
	for _, rec := range sample {
		if rec.CodeMixed {
			mixed++
		}
	}
	fmt.Fprintf(w, "pilot: %d tasks (%d code-mixed) -> %s\n", len(sample), mixed, path)
	return len(sample), nil
}
