// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package unify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/textlab/corpus-engine/pkg/types"
)

// hatexplainPost mirrors one entry in the HateXplain dataset.json map.
type hatexplainPost struct {
	PostTokens []string `json:"post_tokens"`
	Annotators []struct {
		Label       string `json:"label"`
		AnnotatorID int    `json:"annotator_id"`
	} `json:"annotators"`
}

// hatexplainLoader reads the raw HateXplain JSON and reduces the three
// annotator labels per post to a binary majority vote.
type hatexplainLoader struct{}

func (hatexplainLoader) Name() string { return "hatexplain" }

func (hatexplainLoader) Load(rawDir string) ([]types.Record, error) {
	data, err := os.ReadFile(filepath.Join(rawDir, "hatexplain", "dataset.json"))
	if err != nil {
		return nil, err
	}

	var posts map[string]hatexplainPost
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("parsing hatexplain dataset: %w", err)
	}

	splits := hatexplainSplits(rawDir)

	records := make([]types.Record, 0, len(posts))
	for postID, post := range posts {
		label, ok := hatexplainVote(post)
		if !ok {
			continue
		}
		records = append(records, types.Record{
			ID:       "hatexplain_" + postID,
			Text:     strings.Join(post.PostTokens, " "),
			Label:    types.IntPtr(label),
			Source:   "hatexplain",
			Language: "en",
			Metadata: map[string]string{
				"original_id":    postID,
				"num_annotators": strconv.Itoa(len(post.Annotators)),
				"split":          splits[postID],
			},
		})
	}
	return records, nil
}

// hatexplainVote maps annotator labels to binary and takes the majority.
// hatespeech and offensive count as toxic, normal as non-toxic; posts with
// no recognizable labels are dropped.
func hatexplainVote(post hatexplainPost) (int, bool) {
	toxic, normal := 0, 0
	for _, ann := range post.Annotators {
		switch strings.ToLower(ann.Label) {
		case "hatespeech", "offensive", "hate":
			toxic++
		case "normal", "neither":
			normal++
		}
	}
	if toxic == 0 && normal == 0 {
		return 0, false
	}
	if toxic > normal {
		return 1, true
	}
	return 0, true
}

// hatexplainSplits reads the published train/val/test ID divisions. The
// file is optional; without it every record's split is empty.
func hatexplainSplits(rawDir string) map[string]string {
	data, err := os.ReadFile(filepath.Join(rawDir, "hatexplain", "post_id_divisions.json"))
	if err != nil {
		return map[string]string{}
	}
	var divisions map[string][]string
	if err := json.Unmarshal(data, &divisions); err != nil {
		return map[string]string{}
	}

	splits := make(map[string]string)
	for split, ids := range divisions {
		for _, id := range ids {
			splits[id] = split
		}
	}
	return splits
}
