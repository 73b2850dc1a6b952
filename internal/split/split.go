// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package split creates stratified train/dev/test partitions of the
// labeled corpus. Records are grouped by a label, language-group, and
// code-mixed key, shuffled with a fixed seed inside each stratum, and
// allocated proportionally, so class and language balance survives the
// partition.
package split

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/textlab/corpus-engine/internal/unify"
	"github.com/textlab/corpus-engine/pkg/types"
)

const (
	defaultTrainFrac = 0.70
	defaultDevFrac   = 0.15
	defaultTestFrac  = 0.15
	defaultSeed      = 42
)

var splitNames = []string{"train", "dev", "test"}

// Splits holds the three partitions in train/dev/test order.
type Splits struct {
	Train types.Collection
	Dev   types.Collection
	Test  types.Collection
}

// StratKey combines the properties the split must balance. Language is
// folded into three groups: fine-grained language codes would fragment
// small strata.
func StratKey(rec types.Record) string {
	return fmt.Sprintf("%d_%s_%t", rec.LabelValue(), langGroup(rec.Language), rec.CodeMixed)
}

func langGroup(lang string) string {
	switch lang {
	case "en":
		return "english"
	case "hi", "hin":
		return "hindi"
	default:
		return "other"
	}
}

// Stratified partitions the collection. Fractions must sum to 1; strata
// are processed in sorted key order and shuffled with the seed, so the
// same input and seed always produce the same splits.
func Stratified(col types.Collection, cfg types.SplitConfig) (Splits, error) {
	cfg = withDefaults(cfg)
	if err := validate(cfg); err != nil {
		return Splits{}, err
	}

	strata := map[string][]types.Record{}
	for _, rec := range col {
		key := StratKey(rec)
		strata[key] = append(strata[key], rec)
	}
	keys := make([]string, 0, len(strata))
	for key := range strata {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rng := rand.New(rand.NewSource(cfg.Seed))
	var out Splits
	for _, key := range keys {
		records := strata[key]
		rng.Shuffle(len(records), func(i, j int) {
			records[i], records[j] = records[j], records[i]
		})

		// Train gets its share rounded down, dev the next share, test the
		// remainder, so every record lands in exactly one split.
		nTrain := int(math.Floor(float64(len(records)) * cfg.TrainFrac))
		nDev := int(math.Floor(float64(len(records)) * cfg.DevFrac))
		out.Train = append(out.Train, records[:nTrain]...)
		out.Dev = append(out.Dev, records[nTrain:nTrain+nDev]...)
		out.Test = append(out.Test, records[nTrain+nDev:]...)
	}
	return out, nil
}

func withDefaults(cfg types.SplitConfig) types.SplitConfig {
	if cfg.TrainFrac == 0 && cfg.DevFrac == 0 && cfg.TestFrac == 0 {
		cfg.TrainFrac = defaultTrainFrac
		cfg.DevFrac = defaultDevFrac
		cfg.TestFrac = defaultTestFrac
	}
	if cfg.Seed == 0 {
		cfg.Seed = defaultSeed
	}
	return cfg
}

func validate(cfg types.SplitConfig) error {
	for _, frac := range []float64{cfg.TrainFrac, cfg.DevFrac, cfg.TestFrac} {
		if frac < 0 || frac > 1 {
			return fmt.Errorf("split fraction %v out of range [0, 1]", frac)
		}
	}
	if sum := cfg.TrainFrac + cfg.DevFrac + cfg.TestFrac; math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("split fractions sum to %v, want 1.0", sum)
	}
	return nil
}

// Run reads the labeled unified corpus, partitions it, and writes one CSV
// per split plus a YAML manifest under corpus/splits/.
func Run(cfg types.SplitConfig, w io.Writer) (types.SplitManifest, error) {
	records, err := unify.ReadRecords(filepath.Join(cfg.CorpusDir, "unified", "labeled", "records.jsonl"))
	if err != nil {
		return types.SplitManifest{}, fmt.Errorf("loading labeled corpus: %w", err)
	}

	splits, err := Stratified(records, cfg)
	if err != nil {
		return types.SplitManifest{}, err
	}

	dir := filepath.Join(cfg.CorpusDir, "splits")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.SplitManifest{}, fmt.Errorf("creating splits directory: %w", err)
	}

	effective := withDefaults(cfg)
	manifest := types.SplitManifest{
		Seed:      effective.Seed,
		TrainFrac: effective.TrainFrac,
		DevFrac:   effective.DevFrac,
		TestFrac:  effective.TestFrac,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Sizes:     map[string]int{},
		Labels:    map[string]map[string]int{},
		Languages: map[string]map[string]int{},
		StratKeys: map[string]int{},
	}
	for _, rec := range records {
		manifest.StratKeys[StratKey(rec)]++
	}

	for name, part := range map[string]types.Collection{
		"train": splits.Train, "dev": splits.Dev, "test": splits.Test,
	} {
		if err := writeSplitCSV(filepath.Join(dir, name+".csv"), part); err != nil {
			return manifest, err
		}
		manifest.Sizes[name] = len(part)
		manifest.Labels[name] = map[string]int{}
		manifest.Languages[name] = map[string]int{}
		for _, rec := range part {
			manifest.Labels[name][strconv.Itoa(rec.LabelValue())]++
			manifest.Languages[name][rec.Language]++
		}
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return manifest, fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644); err != nil {
		return manifest, err
	}

	for _, name := range splitNames {
		fmt.Fprintf(w, "%s: %d records (%.1f%%)\n", name, manifest.Sizes[name],
			float64(manifest.Sizes[name])/float64(len(records))*100)
	}
	return manifest, nil
}

// writeSplitCSV writes one split with a fixed column order.
func writeSplitCSV(path string, col types.Collection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"id", "text", "label", "source", "language", "code_mixed"}); err != nil {
		return err
	}
	for _, rec := range col {
		row := []string{
			rec.ID,
			rec.Text,
			strconv.Itoa(rec.LabelValue()),
			rec.Source,
			rec.Language,
			strconv.FormatBool(rec.CodeMixed),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
