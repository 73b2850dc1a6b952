// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality validates unified corpora before annotation and
// splitting: schema integrity, text statistics, label balance, language
// spread, and duplicate rates, summarized in a YAML report.
package quality

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/textlab/corpus-engine/internal/dedup"
	"github.com/textlab/corpus-engine/internal/unify"
	"github.com/textlab/corpus-engine/pkg/types"
)

// Duplicate-rate tolerances. Social media data repeats itself, so the
// unlabeled pool gets a looser bound than curated labeled corpora.
const (
	labeledDupTolerance   = 0.05
	unlabeledDupTolerance = 0.20
)

const shortTextThreshold = 10

// Check is one named validation with its outcome.
type Check struct {
	Name   string `yaml:"name"`
	Passed bool   `yaml:"passed"`
	Detail string `yaml:"detail"`
}

// TextStats summarizes text lengths in runes.
type TextStats struct {
	Min       int     `yaml:"min"`
	Max       int     `yaml:"max"`
	Mean      float64 `yaml:"mean"`
	Median    float64 `yaml:"median"`
	VeryShort int     `yaml:"very_short"`
	Empty     int     `yaml:"empty"`
}

// Report is the full validation outcome for one dataset.
type Report struct {
	Dataset       string         `yaml:"dataset"`
	CheckedAt     string         `yaml:"checked_at"`
	Records       int            `yaml:"records"`
	Text          TextStats      `yaml:"text"`
	Labels        map[string]int `yaml:"label_distribution,omitempty"`
	BalanceRatio  float64        `yaml:"balance_ratio,omitempty"`
	Languages     map[string]int `yaml:"language_distribution"`
	CodeMixed     int            `yaml:"code_mixed"`
	DuplicateRate float64        `yaml:"duplicate_rate"`
	Checks        []Check        `yaml:"checks"`
}

// Passed reports whether every check passed.
func (r Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Run validates the unified labeled and unlabeled files under corpusDir
// and writes corpus/reports/quality_report.yaml. Missing files are
// skipped, so the checks run on whatever part of the pipeline has
// completed.
func Run(corpusDir string, w io.Writer) ([]Report, error) {
	datasets := []struct {
		name string
		path string
	}{
		{"labeled", filepath.Join(corpusDir, "unified", "labeled", "records.jsonl")},
		{"unlabeled", filepath.Join(corpusDir, "unified", "unlabeled", "records.jsonl")},
	}

	var reports []Report
	for _, ds := range datasets {
		records, err := unify.ReadRecords(ds.path)
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "skipped: %s (no unified file)\n", ds.name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", ds.name, err)
		}
		reports = append(reports, Validate(types.Collection(records), ds.name, w))
	}

	if len(reports) == 0 {
		return nil, fmt.Errorf("no unified data found under %s", corpusDir)
	}

	dir := filepath.Join(corpusDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return reports, fmt.Errorf("creating reports directory: %w", err)
	}
	data, err := yaml.Marshal(reports)
	if err != nil {
		return reports, fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "quality_report.yaml"), data, 0o644); err != nil {
		return reports, err
	}

	for _, r := range reports {
		status := "passed"
		if !r.Passed() {
			status = "FAILED"
		}
		fmt.Fprintf(w, "%s: %d records, %s\n", r.Dataset, r.Records, status)
	}
	return reports, nil
}

// Validate runs every check against one dataset.
func Validate(col types.Collection, dataset string, w io.Writer) Report {
	report := Report{
		Dataset:   dataset,
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
		Records:   len(col),
		Languages: map[string]int{},
	}

	report.addCheck(checkIDs(col))
	report.addCheck(checkText(col, &report))
	report.addCheck(checkLabels(col, dataset, &report))
	report.addCheck(checkDuplicates(col, dataset, &report))

	for _, rec := range col {
		report.Languages[rec.Language]++
		if rec.CodeMixed {
			report.CodeMixed++
		}
	}

	for _, c := range report.Checks {
		mark := "ok"
		if !c.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "check %-12s [%s] %s (%s)\n", c.Name, mark, dataset, c.Detail)
	}
	return report
}

func (r *Report) addCheck(c Check) { r.Checks = append(r.Checks, c) }

// checkIDs requires unique, non-empty record IDs.
func checkIDs(col types.Collection) Check {
	if err := col.Validate(); err != nil {
		return Check{Name: "ids", Detail: err.Error()}
	}
	return Check{Name: "ids", Passed: true, Detail: "all ids unique"}
}

// checkText computes length statistics and fails on empty texts.
func checkText(col types.Collection, report *Report) Check {
	if len(col) == 0 {
		return Check{Name: "text", Detail: "dataset is empty"}
	}

	lengths := make([]int, len(col))
	total := 0
	stats := TextStats{Min: int(^uint(0) >> 1)}
	for i, rec := range col {
		n := len([]rune(rec.Text))
		lengths[i] = n
		total += n
		if n < stats.Min {
			stats.Min = n
		}
		if n > stats.Max {
			stats.Max = n
		}
		if n < shortTextThreshold {
			stats.VeryShort++
		}
		if strings.TrimSpace(rec.Text) == "" {
			stats.Empty++
		}
	}
	stats.Mean = float64(total) / float64(len(col))

	sort.Ints(lengths)
	mid := len(lengths) / 2
	if len(lengths)%2 == 0 {
		stats.Median = float64(lengths[mid-1]+lengths[mid]) / 2
	} else {
		stats.Median = float64(lengths[mid])
	}
	report.Text = stats

	if stats.Empty > 0 {
		return Check{Name: "text", Detail: fmt.Sprintf("%d empty texts", stats.Empty)}
	}
	return Check{Name: "text", Passed: true,
		Detail: fmt.Sprintf("mean %.1f, median %.1f, %d very short", stats.Mean, stats.Median, stats.VeryShort)}
}

// checkLabels validates label values and records the class balance.
// Unlabeled datasets pass trivially; a minority/majority ratio under 0.1
// is flagged as highly imbalanced.
func checkLabels(col types.Collection, dataset string, report *Report) Check {
	counts := col.LabelCounts()
	labeled := len(col) - counts[-1]
	if labeled == 0 {
		return Check{Name: "labels", Passed: true, Detail: "unlabeled dataset"}
	}

	report.Labels = map[string]int{}
	invalid := 0
	for value, count := range counts {
		if value == -1 {
			continue
		}
		if value != 0 && value != 1 {
			invalid += count
		}
		report.Labels[fmt.Sprintf("%d", value)] = count
	}
	if invalid > 0 {
		return Check{Name: "labels", Detail: fmt.Sprintf("%d labels outside {0,1}", invalid)}
	}

	if counts[0] > 0 && counts[1] > 0 {
		minority, majority := counts[0], counts[1]
		if minority > majority {
			minority, majority = majority, minority
		}
		report.BalanceRatio = float64(minority) / float64(majority)
		if report.BalanceRatio < 0.1 {
			return Check{Name: "labels",
				Detail: fmt.Sprintf("highly imbalanced (ratio %.2f)", report.BalanceRatio)}
		}
	}
	return Check{Name: "labels", Passed: true,
		Detail: fmt.Sprintf("toxic %d, non-toxic %d", counts[1], counts[0])}
}

// checkDuplicates measures the exact-duplicate rate against the
// per-dataset tolerance.
func checkDuplicates(col types.Collection, dataset string, report *Report) Check {
	if len(col) == 0 {
		return Check{Name: "duplicates", Passed: true, Detail: "dataset is empty"}
	}

	seen := make(map[string]bool, len(col))
	dupes := 0
	for _, rec := range col {
		h, err := dedup.ContentHash(rec.Text, dedup.HashMD5)
		if err != nil {
			return Check{Name: "duplicates", Detail: err.Error()}
		}
		if seen[h] {
			dupes++
		}
		seen[h] = true
	}
	report.DuplicateRate = float64(dupes) / float64(len(col))

	tolerance := labeledDupTolerance
	if dataset == "unlabeled" {
		tolerance = unlabeledDupTolerance
	}
	detail := fmt.Sprintf("%d duplicates (%.2f%%)", dupes, report.DuplicateRate*100)
	if report.DuplicateRate > tolerance {
		return Check{Name: "duplicates", Detail: detail + " above tolerance"}
	}
	return Check{Name: "duplicates", Passed: true, Detail: detail}
}
