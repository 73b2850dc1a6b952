// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/textlab/corpus-engine/pkg/types"
)

func collection(texts ...string) types.Collection {
	col := make(types.Collection, len(texts))
	for i, t := range texts {
		col[i] = types.Record{ID: fmt.Sprintf("r%d", i), Text: t}
	}
	return col
}

func ids(col types.Collection) []string {
	out := make([]string, len(col))
	for i, r := range col {
		out[i] = r.ID
	}
	return out
}

func TestContentHash(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"case insensitive", "abc", "ABC", true},
		{"whitespace collapsed", "hello   world", " hello world ", true},
		{"different text", "hello", "goodbye", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ha, err := ContentHash(tt.a, HashMD5)
			if err != nil {
				t.Fatal(err)
			}
			hb, err := ContentHash(tt.b, HashMD5)
			if err != nil {
				t.Fatal(err)
			}
			if (ha == hb) != tt.same {
				t.Errorf("ContentHash(%q) == ContentHash(%q): got %v, want %v", tt.a, tt.b, ha == hb, tt.same)
			}
		})
	}
}

func TestContentHash_SHA256(t *testing.T) {
	h, err := ContentHash("abc", HashSHA256)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 64 {
		t.Errorf("sha256 digest length = %d, want 64", len(h))
	}
}

func TestContentHash_UnknownAlgorithm(t *testing.T) {
	if _, err := ContentHash("abc", "crc32"); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestRemoveExact(t *testing.T) {
	tests := []struct {
		name        string
		texts       []string
		keep        types.KeepPolicy
		wantIDs     []string
		wantRemoved int
	}{
		{
			name:        "keep first",
			texts:       []string{"abc", "abc", "ABC  "},
			keep:        types.KeepFirst,
			wantIDs:     []string{"r0"},
			wantRemoved: 2,
		},
		{
			name:        "keep last",
			texts:       []string{"abc", "abc", "ABC  "},
			keep:        types.KeepLast,
			wantIDs:     []string{"r2"},
			wantRemoved: 2,
		},
		{
			name:        "no duplicates",
			texts:       []string{"one", "two", "three"},
			keep:        types.KeepFirst,
			wantIDs:     []string{"r0", "r1", "r2"},
			wantRemoved: 0,
		},
		{
			name:        "order preserved",
			texts:       []string{"x", "y", "x", "z"},
			keep:        types.KeepFirst,
			wantIDs:     []string{"r0", "r1", "r3"},
			wantRemoved: 1,
		},
		{
			name:        "single record",
			texts:       []string{"only"},
			keep:        types.KeepFirst,
			wantIDs:     []string{"r0"},
			wantRemoved: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := collection(tt.texts...)
			out, removed, err := RemoveExact(col, tt.keep)
			if err != nil {
				t.Fatal(err)
			}
			if removed != tt.wantRemoved {
				t.Errorf("removed = %d, want %d", removed, tt.wantRemoved)
			}
			if len(out)+removed != len(col) {
				t.Errorf("len(out)+removed = %d, want %d", len(out)+removed, len(col))
			}
			got := ids(out)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Errorf("ids = %v, want %v", got, tt.wantIDs)
					break
				}
			}
		})
	}
}

func TestRemoveExact_InvalidKeep(t *testing.T) {
	if _, _, err := RemoveExact(collection("a"), "middle"); err == nil {
		t.Error("expected error for invalid keep policy")
	}
}

func TestRemoveExact_Idempotent(t *testing.T) {
	col := collection("abc", "abc", "ABC  ", "other")
	once, _, err := RemoveExact(col, types.KeepFirst)
	if err != nil {
		t.Fatal(err)
	}
	twice, removed, err := RemoveExact(once, types.KeepFirst)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("second pass removed %d, want 0", removed)
	}
	if len(twice) != len(once) {
		t.Errorf("second pass changed size: %d -> %d", len(once), len(twice))
	}
}

func TestFindNearDuplicates(t *testing.T) {
	texts := []string{
		"This is a test message",
		"This is a test message!!!",
		"Completely different text",
	}

	var log bytes.Buffer
	clusters, err := FindNearDuplicates(texts, NearOptions{Threshold: 0.90}, &log)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 1 {
		t.Fatalf("clusters = %v, want one cluster", clusters)
	}
	if len(clusters[0]) != 2 || clusters[0][0] != 0 || clusters[0][1] != 1 {
		t.Errorf("cluster = %v, want [0 1]", clusters[0])
	}
}

func TestFindNearDuplicates_Degenerate(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
	}{
		{"empty corpus", nil},
		{"all empty texts", []string{"", "", ""}},
		{"all stop words", []string{"the and of", "is was were"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log bytes.Buffer
			clusters, err := FindNearDuplicates(tt.texts, NearOptions{}, &log)
			if err != nil {
				t.Fatal(err)
			}
			if len(clusters) != 0 {
				t.Errorf("clusters = %v, want none", clusters)
			}
			if len(tt.texts) > 0 && !strings.Contains(log.String(), "warning") {
				t.Errorf("expected vectorization warning, got %q", log.String())
			}
		})
	}
}

func TestFindNearDuplicates_ThresholdValidation(t *testing.T) {
	var log bytes.Buffer
	for _, threshold := range []float64{-0.5, 1.5} {
		if _, err := FindNearDuplicates([]string{"a b c"}, NearOptions{Threshold: threshold}, &log); err == nil {
			t.Errorf("threshold %v: expected error", threshold)
		}
	}
}

func TestFindNearDuplicates_SmallBatches(t *testing.T) {
	// A batch size smaller than the corpus must still compare every pair.
	texts := []string{
		"unique first document here",
		"some other unrelated words",
		"yet more distinct content",
		"unique first document here",
	}
	var log bytes.Buffer
	clusters, err := FindNearDuplicates(texts, NearOptions{Threshold: 0.95, BatchSize: 2}, &log)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 1 || clusters[0][0] != 0 || clusters[0][1] != 3 {
		t.Errorf("clusters = %v, want [[0 3]]", clusters)
	}
}

func TestRemoveNear(t *testing.T) {
	col := collection(
		"This is a test message",
		"This is a test message!!!",
		"Completely different text",
	)

	var log bytes.Buffer
	out, removed, err := RemoveNear(col, 0.90, types.KeepFirst, &log)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(out) != 2 {
		t.Fatalf("final size = %d, want 2", len(out))
	}
	if out[0].ID != "r0" || out[1].ID != "r2" {
		t.Errorf("ids = %v, want [r0 r2]", ids(out))
	}
}

func TestRemoveNear_KeepLast(t *testing.T) {
	col := collection(
		"This is a test message",
		"This is a test message!!!",
	)
	var log bytes.Buffer
	out, removed, err := RemoveNear(col, 0.90, types.KeepLast, &log)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 || len(out) != 1 || out[0].ID != "r1" {
		t.Errorf("got ids %v removed %d, want [r1] removed 1", ids(out), removed)
	}
}

func TestRemoveNear_SingleRecord(t *testing.T) {
	var log bytes.Buffer
	out, removed, err := RemoveNear(collection("just one record here"), 0.95, types.KeepFirst, &log)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 || len(out) != 1 {
		t.Errorf("single record: removed %d, size %d", removed, len(out))
	}
}

func TestDeduplicate(t *testing.T) {
	col := collection(
		"This is a test message",
		"This is a test message", // exact duplicate
		"This is a test message!!!", // near duplicate
		"Completely different text",
		"Another unique message",
		"This is a test message.", // near duplicate
	)

	var log bytes.Buffer
	out, stats, err := Deduplicate(col, types.DedupConfig{
		Exact:         true,
		Near:          true,
		NearThreshold: 0.90,
		Keep:          types.KeepFirst,
	}, &log)
	if err != nil {
		t.Fatal(err)
	}

	if stats.OriginalSize != 6 {
		t.Errorf("original = %d, want 6", stats.OriginalSize)
	}
	if stats.ExactRemoved != 1 {
		t.Errorf("exact removed = %d, want 1", stats.ExactRemoved)
	}
	if stats.NearRemoved != 2 {
		t.Errorf("near removed = %d, want 2", stats.NearRemoved)
	}
	if stats.FinalSize != 3 || len(out) != 3 {
		t.Errorf("final = %d (len %d), want 3", stats.FinalSize, len(out))
	}
	if stats.TotalRemoved != 3 {
		t.Errorf("total removed = %d, want 3", stats.TotalRemoved)
	}
	if stats.DedupRatePct != 50 {
		t.Errorf("dedup rate = %v, want 50", stats.DedupRatePct)
	}
	if got := ids(out); got[0] != "r0" || got[1] != "r3" || got[2] != "r4" {
		t.Errorf("ids = %v, want [r0 r3 r4]", got)
	}
}

func TestDeduplicate_ExactOnly(t *testing.T) {
	col := collection("abc", "abc", "xyz")
	var log bytes.Buffer
	out, stats, err := Deduplicate(col, types.DedupConfig{Exact: true}, &log)
	if err != nil {
		t.Fatal(err)
	}
	if stats.ExactRemoved != 1 || stats.NearRemoved != 0 || len(out) != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDeduplicate_EmptyCollection(t *testing.T) {
	var log bytes.Buffer
	out, stats, err := Deduplicate(nil, types.DedupConfig{Exact: true, Near: true}, &log)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 || stats.TotalRemoved != 0 || stats.DedupRatePct != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDeduplicate_BadConfig(t *testing.T) {
	col := collection("a")
	var log bytes.Buffer

	if _, _, err := Deduplicate(col, types.DedupConfig{Exact: true, Keep: "middle"}, &log); err == nil {
		t.Error("expected error for bad keep policy")
	}
	if _, _, err := Deduplicate(col, types.DedupConfig{Near: true, NearThreshold: 2}, &log); err == nil {
		t.Error("expected error for out-of-range threshold")
	}
}
