// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotation

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/textlab/corpus-engine/pkg/types"
)

// Aggregated is one item's final label after combining all annotators.
type Aggregated struct {
	TaskID            string   `json:"task_id"`
	Text              string   `json:"text"`
	Label             *int     `json:"label,omitempty"`
	Subtypes          []string `json:"subtypes,omitempty"`
	Agreement         float64  `json:"agreement"`
	Annotators        int      `json:"annotators"`
	NeedsAdjudication bool     `json:"needs_adjudication"`
}

// MajorityVote aggregates annotations per task. Subtypes are the union of
// all annotators' choices. A tied vote produces no label and flags the
// item for adjudication instead of picking a side arbitrarily.
func MajorityVote(annotations []types.Annotation) []Aggregated {
	order := []string{}
	byTask := map[string][]types.Annotation{}
	for _, ann := range annotations {
		if _, ok := byTask[ann.TaskID]; !ok {
			order = append(order, ann.TaskID)
		}
		byTask[ann.TaskID] = append(byTask[ann.TaskID], ann)
	}

	var out []Aggregated
	for _, taskID := range order {
		anns := byTask[taskID]
		agg := Aggregated{TaskID: taskID, Text: anns[0].Text, Annotators: len(anns)}

		votes := map[int]int{}
		voted := 0
		subtypes := map[string]bool{}
		for _, ann := range anns {
			if ann.Label != nil {
				votes[*ann.Label]++
				voted++
			}
			for _, s := range ann.Subtypes {
				subtypes[s] = true
			}
		}

		for s := range subtypes {
			agg.Subtypes = append(agg.Subtypes, s)
		}
		sort.Strings(agg.Subtypes)

		switch {
		case voted == 0:
			agg.NeedsAdjudication = true
		case votes[0] == votes[1]:
			agg.NeedsAdjudication = true
		case votes[1] > votes[0]:
			agg.Label = types.IntPtr(1)
			agg.Agreement = float64(votes[1]) / float64(voted)
		default:
			agg.Label = types.IntPtr(0)
			agg.Agreement = float64(votes[0]) / float64(voted)
		}
		out = append(out, agg)
	}
	return out
}

// ExportFinal aggregates an export and writes the results under
// corpus/annotation/exports/: final labels as JSONL and CSV, plus an
// adjudication CSV template for the flagged items.
func ExportFinal(cfg types.AnnotationConfig, exportPath string, w io.Writer) ([]Aggregated, error) {
	annotations, err := ReadExport(exportPath)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	aggregated := MajorityVote(annotations)
	pending, err := WriteFinal(cfg, aggregated)
	if err != nil {
		return aggregated, err
	}

	fmt.Fprintf(w, "export: %d items aggregated, %d need adjudication\n", len(aggregated), pending)
	return aggregated, nil
}

// WriteFinal writes the aggregated labels under corpus/annotation/exports/
// as JSONL and CSV, plus an adjudication worksheet for the flagged items.
// It returns the number of items still needing adjudication.
func WriteFinal(cfg types.AnnotationConfig, aggregated []Aggregated) (int, error) {
	dir := filepath.Join(cfg.CorpusDir, "annotation", "exports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating exports directory: %w", err)
	}

	if err := writeAggregatedJSONL(filepath.Join(dir, "final_labels.jsonl"), aggregated); err != nil {
		return 0, err
	}
	if err := writeAggregatedCSV(filepath.Join(dir, "final_labels.csv"), aggregated); err != nil {
		return 0, err
	}

	var pending []Aggregated
	for _, agg := range aggregated {
		if agg.NeedsAdjudication {
			pending = append(pending, agg)
		}
	}
	if err := writeAdjudicationTemplate(filepath.Join(dir, "adjudication.csv"), pending); err != nil {
		return 0, err
	}
	return len(pending), nil
}

func writeAggregatedJSONL(path string, items []Aggregated) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encoding item %s: %w", item.TaskID, err)
		}
	}
	return buf.Flush()
}

func writeAggregatedCSV(path string, items []Aggregated) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"task_id", "text", "label", "subtypes", "agreement", "annotators", "needs_adjudication"}); err != nil {
		return err
	}
	for _, item := range items {
		label := ""
		if item.Label != nil {
			label = strconv.Itoa(*item.Label)
		}
		row := []string{
			item.TaskID,
			item.Text,
			label,
			strings.Join(item.Subtypes, "|"),
			strconv.FormatFloat(item.Agreement, 'f', 3, 64),
			strconv.Itoa(item.Annotators),
			strconv.FormatBool(item.NeedsAdjudication),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeAdjudicationTemplate writes the flagged items with empty columns
// for the adjudicator to fill in.
func writeAdjudicationTemplate(path string, items []Aggregated) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"task_id", "text", "adjudicated_label", "adjudicator"}); err != nil {
		return err
	}
	for _, item := range items {
		if err := cw.Write([]string{item.TaskID, item.Text, "", ""}); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ApplyAdjudications overrides aggregated labels with the decisions from a
// filled-in adjudication CSV. Rows with an empty adjudicated_label are
// still pending and skipped.
func ApplyAdjudications(aggregated []Aggregated, r io.Reader) ([]Aggregated, int, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return aggregated, 0, fmt.Errorf("reading adjudication header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"task_id", "adjudicated_label"} {
		if _, ok := col[required]; !ok {
			return aggregated, 0, fmt.Errorf("adjudication CSV missing column %q", required)
		}
	}

	decisions := map[string]int{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return aggregated, 0, fmt.Errorf("reading adjudication row: %w", err)
		}
		raw := strings.TrimSpace(row[col["adjudicated_label"]])
		if raw == "" {
			continue
		}
		label, err := strconv.Atoi(raw)
		if err != nil || (label != 0 && label != 1) {
			return aggregated, 0, fmt.Errorf("invalid adjudicated label %q for task %s", raw, row[col["task_id"]])
		}
		decisions[row[col["task_id"]]] = label
	}

	applied := 0
	for i := range aggregated {
		label, ok := decisions[aggregated[i].TaskID]
		if !ok {
			continue
		}
		aggregated[i].Label = types.IntPtr(label)
		aggregated[i].NeedsAdjudication = false
		aggregated[i].Agreement = 1.0
		applied++
	}
	return aggregated, applied, nil
}
