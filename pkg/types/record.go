// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Record is one comment or sentence flowing through the pipeline. Upstream
// loaders and collectors create Records; downstream stages treat every field
// except Text as read-only.
type Record struct {
	// ID is unique within a Collection. Loaders that find no source ID
	// generate one.
	ID string `json:"id" yaml:"id"`

	// Text is the comment body. The only field the core stages consume.
	Text string `json:"text" yaml:"text"`

	// Label is the binary toxicity label (0 or 1). Nil for unlabeled data.
	Label *int `json:"label,omitempty" yaml:"label,omitempty"`

	// Source names the originating corpus or platform
	// (e.g. "hatexplain", "reddit", "youtube", "textdetox").
	Source string `json:"source" yaml:"source"`

	// Language is the detected ISO 639-1 code, or "unknown".
	Language string `json:"language" yaml:"language"`

	// CodeMixed marks Hindi-English code-mixed text.
	CodeMixed bool `json:"code_mixed" yaml:"code_mixed"`

	// Metadata carries source-specific fields (subreddit, video id, split
	// name) that the pipeline preserves but never interprets.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Labeled reports whether the record carries a toxicity label.
func (r Record) Labeled() bool { return r.Label != nil }

// LabelValue returns the label, or -1 when unlabeled.
func (r Record) LabelValue() int {
	if r.Label == nil {
		return -1
	}
	return *r.Label
}

// IntPtr is a convenience for building labeled Records.
func IntPtr(v int) *int { return &v }

// Collection is an ordered sequence of Records. Order only matters for
// "keep first occurrence" tie-breaking during deduplication.
type Collection []Record

// Texts returns the text column in collection order.
func (c Collection) Texts() []string {
	out := make([]string, len(c))
	for i, r := range c {
		out[i] = r.Text
	}
	return out
}

// Validate checks that record IDs are unique within the collection.
func (c Collection) Validate() error {
	seen := make(map[string]int, len(c))
	for i, r := range c {
		if r.ID == "" {
			return fmt.Errorf("record %d has empty id", i)
		}
		if j, ok := seen[r.ID]; ok {
			return fmt.Errorf("duplicate id %q at indices %d and %d", r.ID, j, i)
		}
		seen[r.ID] = i
	}
	return nil
}

// LabelCounts returns the number of records per label value. Unlabeled
// records are counted under -1.
func (c Collection) LabelCounts() map[int]int {
	counts := make(map[int]int)
	for _, r := range c {
		counts[r.LabelValue()]++
	}
	return counts
}
