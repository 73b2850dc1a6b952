// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/textlab/corpus-engine/pkg/types"
)

// Near-duplicate detection defaults.
const (
	DefaultNearThreshold = 0.95
	DefaultNgramMin      = 1
	DefaultNgramMax      = 3
	DefaultMaxFeatures   = 10000
	DefaultBatchSize     = 1000
)

// NearOptions configures near-duplicate detection.
type NearOptions struct {
	// Threshold is the cosine similarity cutoff in (0, 1].
	Threshold float64

	// NgramMin, NgramMax, MaxFeatures configure TF-IDF vectorization.
	NgramMin    int
	NgramMax    int
	MaxFeatures int

	// BatchSize bounds the similarity matrix held at once to
	// BatchSize x len(texts) entries.
	BatchSize int
}

func (o NearOptions) withDefaults() NearOptions {
	if o.Threshold == 0 {
		o.Threshold = DefaultNearThreshold
	}
	if o.NgramMin == 0 {
		o.NgramMin = DefaultNgramMin
	}
	if o.NgramMax == 0 {
		o.NgramMax = DefaultNgramMax
	}
	if o.MaxFeatures == 0 {
		o.MaxFeatures = DefaultMaxFeatures
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o
}

func (o NearOptions) validate() error {
	if o.Threshold <= 0 || o.Threshold > 1 {
		return fmt.Errorf("near-duplicate threshold must be in (0, 1], got %v", o.Threshold)
	}
	if o.NgramMin > o.NgramMax {
		return fmt.Errorf("invalid n-gram range [%d, %d]", o.NgramMin, o.NgramMax)
	}
	return nil
}

// FindNearDuplicates clusters texts whose TF-IDF cosine similarity meets
// the threshold. Each batch of rows is compared against the entire matrix,
// so no pair is missed while the similarity matrix held in memory stays at
// batch x n entries.
//
// Clustering is a greedy, order-dependent sweep, not transitive closure: a
// record joins the cluster of the first query row it matched, and a later
// row already swept into a cluster is never reconsidered. Its similarity to
// the cluster's retained representative may be below threshold. Returned
// clusters are disjoint and each is sorted ascending.
//
// An unvectorizable corpus (all texts empty or all stop words) degrades to
// zero clusters with a warning on w.
func FindNearDuplicates(texts []string, opts NearOptions, w io.Writer) ([][]int, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if len(texts) == 0 {
		return nil, nil
	}

	matrix, ok := vectorize(texts, vectorizerOptions{
		ngramMin:    opts.NgramMin,
		ngramMax:    opts.NgramMax,
		maxFeatures: opts.MaxFeatures,
		stopWords:   englishStopWords,
	})
	if !ok {
		fmt.Fprintln(w, "warning: could not vectorize texts, skipping near-duplicate detection")
		return nil, nil
	}

	n, _ := matrix.Dims()
	processed := make([]bool, n)
	var clusters [][]int

	for start := 0; start < n; start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > n {
			end = n
		}

		// Rows are unit vectors, so batch x matrix^T is cosine similarity
		// of the batch against every document.
		batch := matrix.Slice(start, end, 0, matrix.RawMatrix().Cols)
		sims := mat.NewDense(end-start, n, nil)
		sims.Mul(batch, matrix.T())

		for local, global := 0, start; global < end; local, global = local+1, global+1 {
			if processed[global] {
				continue
			}

			var matches []int
			for j := 0; j < n; j++ {
				if j == global || processed[j] {
					continue
				}
				if sims.At(local, j) >= opts.Threshold {
					matches = append(matches, j)
				}
			}
			if len(matches) == 0 {
				continue
			}

			cluster := append([]int{global}, matches...)
			sort.Ints(cluster)
			for _, idx := range cluster {
				processed[idx] = true
			}
			clusters = append(clusters, cluster)
		}
	}

	return clusters, nil
}

// RemoveNear drops all but one record from each near-duplicate cluster.
// Every removed record had cosine similarity at or above threshold with the
// query row that swept it into its cluster (not necessarily with the
// retained representative). Relative order of retained records is
// preserved.
func RemoveNear(col types.Collection, threshold float64, keep types.KeepPolicy, w io.Writer) (types.Collection, int, error) {
	if !keep.Valid() {
		return nil, 0, fmt.Errorf("invalid keep policy: %q", keep)
	}

	clusters, err := FindNearDuplicates(col.Texts(), NearOptions{Threshold: threshold}, w)
	if err != nil {
		return nil, 0, err
	}

	remove := make(map[int]bool)
	for _, cluster := range clusters {
		switch keep {
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

	out := make(types.Collection, 0, len(col)-len(remove))
	for i, r := range col {
		if !remove[i] {
			out = append(out, r)
		}
	}

	return out, len(remove), nil
}
