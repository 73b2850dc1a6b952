// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package unify standardizes the raw source corpora into one record
// schema. Each source has a loader that maps its native format to Record;
// the orchestrator normalizes text, fills missing IDs, and writes the
// combined labeled and unlabeled JSONL files under corpus/unified/.
package unify

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/textlab/corpus-engine/internal/normtext"
	"github.com/textlab/corpus-engine/pkg/types"
)

const defaultMinLength = 10

// Loader maps one raw source directory to unified records.
type Loader interface {
	Name() string
	Load(rawDir string) ([]types.Record, error)
}

// loaders lists every known source. Sources whose raw files are absent
// are skipped, so a partial corpus tree still unifies.
var loaders = []Loader{
	hatexplainLoader{},
	textdetoxLoader{},
	jigsawLoader{},
	socialLoader{platform: "reddit"},
	socialLoader{platform: "youtube"},
}

// Report summarizes a unification run, written as YAML under
// corpus/reports/.
type Report struct {
	ProcessedAt       string         `yaml:"processed_at"`
	Preset            string         `yaml:"preset"`
	TotalLabeled      int            `yaml:"total_labeled"`
	TotalUnlabeled    int            `yaml:"total_unlabeled"`
	Dropped           int            `yaml:"dropped"`
	BySource          map[string]int `yaml:"by_source"`
	LabelDistribution map[string]int `yaml:"label_distribution"`
	Languages         map[string]int `yaml:"language_distribution"`
	CodeMixed         int            `yaml:"code_mixed"`
}

// Run loads every available source, normalizes and filters the records,
// and writes corpus/unified/{labeled,unlabeled}/records.jsonl plus a
// report.
func Run(cfg types.UnifyConfig, w io.Writer) (Report, error) {
	preset := cfg.Preset
	if preset == "" {
		preset = "code_mixed"
	}
	normCfg, err := types.NormalizationPreset(preset)
	if err != nil {
		return Report{}, err
	}
	minLength := cfg.MinLength
	if minLength <= 0 {
		minLength = defaultMinLength
	}

	rawDir := filepath.Join(cfg.CorpusDir, "raw")
	report := Report{
		ProcessedAt:       time.Now().UTC().Format(time.RFC3339),
		Preset:            preset,
		BySource:          map[string]int{},
		LabelDistribution: map[string]int{},
		Languages:         map[string]int{},
	}

	var labeled, unlabeled []types.Record
	for _, loader := range loaders {
		records, err := loader.Load(rawDir)
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "skipped: %s (no raw files)\n", loader.Name())
			continue
		}
		if err != nil {
			return report, fmt.Errorf("loading %s: %w", loader.Name(), err)
		}

		kept := 0
		for _, rec := range records {
			rec.Text = normtext.Normalize(rec.Text, normCfg)
			if len([]rune(rec.Text)) < minLength {
				report.Dropped++
				continue
			}
			if rec.ID == "" {
				rec.ID = rec.Source + "_" + uuid.NewString()[:12]
			}
			if rec.Language == "" {
				rec.Language = DetectLanguage(rec.Text)
			}

			if rec.Labeled() {
				labeled = append(labeled, rec)
				report.LabelDistribution[fmt.Sprintf("%d", rec.LabelValue())]++
			} else {
				unlabeled = append(unlabeled, rec)
			}
			report.BySource[rec.Source]++
			report.Languages[rec.Language]++
			if rec.CodeMixed {
				report.CodeMixed++
			}
			kept++
		}
		fmt.Fprintf(w, "unified: %s (%d records, %d dropped)\n", loader.Name(), kept, len(records)-kept)
	}

	// Loader output order is map-dependent for some sources; sort for
	// reproducible files.
	sort.Slice(labeled, func(i, j int) bool { return labeled[i].ID < labeled[j].ID })
	sort.Slice(unlabeled, func(i, j int) bool { return unlabeled[i].ID < unlabeled[j].ID })

	report.TotalLabeled = len(labeled)
	report.TotalUnlabeled = len(unlabeled)

	unifiedDir := filepath.Join(cfg.CorpusDir, "unified")
	if err := WriteRecords(filepath.Join(unifiedDir, "labeled", "records.jsonl"), labeled); err != nil {
		return report, err
	}
	if err := WriteRecords(filepath.Join(unifiedDir, "unlabeled", "records.jsonl"), unlabeled); err != nil {
		return report, err
	}
	if err := writeReport(cfg.CorpusDir, report); err != nil {
		return report, err
	}

	fmt.Fprintf(w, "\nunify: %d labeled, %d unlabeled, %d dropped\n",
		report.TotalLabeled, report.TotalUnlabeled, report.Dropped)
	return report, nil
}

// WriteRecords writes records as JSONL, creating parent directories.
func WriteRecords(path string, records []types.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record %s: %w", rec.ID, err)
		}
	}
	return buf.Flush()
}

// ReadRecords loads a unified JSONL file back into memory. The quality,
// split, and store stages all consume unify output through this.
func ReadRecords(path string) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []types.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		var rec types.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", path, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

func writeReport(corpusDir string, report Report) error {
	dir := filepath.Join(corpusDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating reports directory: %w", err)
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "unify_report.yaml"), data, 0o644)
}
