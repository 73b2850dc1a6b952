// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup removes exact and near-duplicate records from a collection.
// Exact duplicates are found by hashing text normalized for hashing
// (lowercased, whitespace-collapsed); near-duplicates by TF-IDF cosine
// similarity over word n-grams. Each call is a single deterministic pass
// with no state kept between collections.
package dedup

import (
	"fmt"
	"io"

	"github.com/textlab/corpus-engine/pkg/types"
)

// Deduplicate runs the configured passes over col. The exact pass always
// precedes the near pass, so near-duplicate search only scans the already
// exact-deduplicated set. Configuration errors (bad keep policy, threshold
// out of range) are returned before any processing.
func Deduplicate(col types.Collection, cfg types.DedupConfig, w io.Writer) (types.Collection, types.DedupStats, error) {
	if cfg.Keep == "" {
		cfg.Keep = types.KeepFirst
	}
	if !cfg.Keep.Valid() {
		return nil, types.DedupStats{}, fmt.Errorf("invalid keep policy: %q", cfg.Keep)
	}
	if cfg.NearThreshold == 0 {
		cfg.NearThreshold = DefaultNearThreshold
	}
	if cfg.Near && (cfg.NearThreshold <= 0 || cfg.NearThreshold > 1) {
		return nil, types.DedupStats{}, fmt.Errorf("near-duplicate threshold must be in (0, 1], got %v", cfg.NearThreshold)
	}

	stats := types.DedupStats{OriginalSize: len(col)}
	out := col

	if cfg.Exact {
		var (
			n   int
			err error
		)
		out, n, err = RemoveExact(out, cfg.Keep)
		if err != nil {
			return nil, types.DedupStats{}, err
		}
		stats.ExactRemoved = n
		fmt.Fprintf(w, "exact pass: removed %d of %d\n", n, stats.OriginalSize)
	}

	if cfg.Near {
		nearInput := len(out)
		clusters, err := FindNearDuplicates(out.Texts(), NearOptions{
			Threshold:   cfg.NearThreshold,
			NgramMin:    cfg.NgramMin,
			NgramMax:    cfg.NgramMax,
			MaxFeatures: cfg.MaxFeatures,
			BatchSize:   cfg.BatchSize,
		}, w)
		if err != nil {
			return nil, types.DedupStats{}, err
		}

		remove := make(map[int]bool)
		for _, cluster := range clusters {
			switch cfg.Keep {
			case types.KeepFirst:
				for _, idx := range cluster[1:] {
					remove[idx] = true
				}
			case types.KeepLast:
				for _, idx := range cluster[:len(cluster)-1] {
					remove[idx] = true
				}
			}
		}

		kept := make(types.Collection, 0, len(out)-len(remove))
		for i, r := range out {
			if !remove[i] {
				kept = append(kept, r)
			}
		}
		out = kept
		stats.NearRemoved = len(remove)
		fmt.Fprintf(w, "near pass (threshold %.2f): removed %d of %d\n", cfg.NearThreshold, len(remove), nearInput)
	}

	stats.FinalSize = len(out)
	stats.TotalRemoved = stats.OriginalSize - stats.FinalSize
	if stats.OriginalSize > 0 {
		stats.DedupRatePct = float64(stats.TotalRemoved) / float64(stats.OriginalSize) * 100
	}

	fmt.Fprintf(w, "deduplication: %d -> %d (%.2f%% removed)\n",
		stats.OriginalSize, stats.FinalSize, stats.DedupRatePct)

	return out, stats, nil
}
