// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotation

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/textlab/corpus-engine/pkg/types"
)

// CohenKappa computes chance-corrected agreement between two aligned
// binary label slices. Degenerate marginals (both annotators using a
// single class) make expected agreement 1; that case is full agreement or
// none, never chance.
func CohenKappa(a, b []int) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("label slices differ in length: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("no co-annotated items")
	}

	n := float64(len(a))
	observed := 0.0
	var aPos, bPos float64
	for i := range a {
		if a[i] == b[i] {
			observed++
		}
		if a[i] == 1 {
			aPos++
		}
		if b[i] == 1 {
			bPos++
		}
	}
	po := observed / n
	pe := (aPos/n)*(bPos/n) + ((n-aPos)/n)*((n-bPos)/n)

	if pe >= 1 {
		if po == 1 {
			return 1, nil
		}
		return 0, nil
	}
	return (po - pe) / (1 - pe), nil
}

// InterpretKappa maps a kappa value to the Landis and Koch bands.
func InterpretKappa(kappa float64) string {
	switch {
	case kappa < 0:
		return "poor"
	case kappa < 0.2:
		return "slight"
	case kappa < 0.4:
		return "fair"
	case kappa < 0.6:
		return "moderate"
	case kappa < 0.8:
		return "substantial"
	default:
		return "almost perfect"
	}
}

// Agreement computes pairwise Cohen's kappa over every annotator pair
// with co-annotated items, plus the task IDs where annotators disagree.
func Agreement(annotations []types.Annotation) types.IAAReport {
	// task -> annotator -> label
	byTask := map[string]map[string]int{}
	annotators := map[string]bool{}
	for _, ann := range annotations {
		if ann.Label == nil {
			continue
		}
		if byTask[ann.TaskID] == nil {
			byTask[ann.TaskID] = map[string]int{}
		}
		byTask[ann.TaskID][ann.Annotator] = *ann.Label
		annotators[ann.Annotator] = true
	}

	report := types.IAAReport{Tasks: len(byTask)}
	for taskID, labels := range byTask {
		if len(labels) < 2 {
			continue
		}
		report.MultiAnnotated++
		seen := map[int]bool{}
		for _, label := range labels {
			seen[label] = true
		}
		if len(seen) > 1 {
			report.Disagreements = append(report.Disagreements, taskID)
		}
	}
	sort.Strings(report.Disagreements)

	names := make([]string, 0, len(annotators))
	for name := range annotators {
		names = append(names, name)
	}
	sort.Strings(names)

	kappaSum := 0.0
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			var a, b []int
			matched := 0
			agree := 0
			for _, labels := range byTask {
				la, okA := labels[names[i]]
				lb, okB := labels[names[j]]
				if !okA || !okB {
					continue
				}
				a = append(a, la)
				b = append(b, lb)
				matched++
				if la == lb {
					agree++
				}
			}
			if matched == 0 {
				continue
			}
			kappa, err := CohenKappa(a, b)
			if err != nil {
				continue
			}
			report.Pairs = append(report.Pairs, types.PairKappa{
				AnnotatorA: names[i],
				AnnotatorB: names[j],
				Items:      matched,
				Kappa:      kappa,
				Agreement:  float64(agree) / float64(matched),
			})
			kappaSum += kappa
		}
	}

	if len(report.Pairs) > 0 {
		report.MeanKappa = kappaSum / float64(len(report.Pairs))
		report.Interpretation = InterpretKappa(report.MeanKappa)
	}
	return report
}

// RunIAA parses an export, computes agreement, and writes the YAML report
// under corpus/reports/.
func RunIAA(cfg types.AnnotationConfig, exportPath string, w io.Writer) (types.IAAReport, error) {
	annotations, err := ReadExport(exportPath)
	if err != nil {
		return types.IAAReport{}, fmt.Errorf("reading export: %w", err)
	}

	report := Agreement(annotations)

	dir := filepath.Join(cfg.CorpusDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report, fmt.Errorf("creating reports directory: %w", err)
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return report, fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "iaa_report.yaml"), data, 0o644); err != nil {
		return report, err
	}

	fmt.Fprintf(w, "iaa: %d tasks, %d multi-annotated, mean kappa %.3f (%s), %d disagreements\n",
		report.Tasks, report.MultiAnnotated, report.MeanKappa, report.Interpretation, len(report.Disagreements))
	return report, nil
}
