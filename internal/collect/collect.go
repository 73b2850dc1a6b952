// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect gathers social-media comments for annotation. The Reddit
// collector walks the public JSON listing API over a configured subreddit
// list; the YouTube collector reads comment threads for configured videos
// through the Data API v3 under a quota budget. Both write JSONL under
// corpus/raw/ plus a run manifest.
package collect

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

const rawDir = "raw"

// minCommentLength filters out comments too short to annotate.
const minCommentLength = 10

// Comment is one collected comment as written to the raw JSONL files.
type Comment struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	Author     string  `json:"author,omitempty"`
	Subreddit  string  `json:"subreddit,omitempty"`
	VideoID    string  `json:"video_id,omitempty"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc,omitempty"`
}

// Result holds the outcome of a collection run.
type Result struct {
	Collected int
	Requests  int
	ByGroup   map[string]int
}

// Manifest is the YAML run record written next to the collected comments.
type Manifest struct {
	Platform    string         `yaml:"platform"`
	CollectedAt string         `yaml:"collected_at"`
	Comments    int            `yaml:"comments"`
	Requests    int            `yaml:"requests"`
	ByGroup     map[string]int `yaml:"by_group"`
}

// pause sleeps between requests unless the context ends first. A zero
// delay returns immediately, which keeps tests fast.
func pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

// usable reports whether a comment body is worth keeping: long enough and
// not a deletion tombstone.
func usable(text string) bool {
	t := strings.TrimSpace(text)
	if len([]rune(t)) < minCommentLength {
		return false
	}
	return t != "[deleted]" && t != "[removed]"
}

// writeRun writes the collected comments as JSONL plus a manifest into
// dir, replacing any previous run.
func writeRun(dir, platform string, comments []Comment, result Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	f, err := os.Create(filepath.Join(dir, "comments.jsonl"))
	if err != nil {
		return fmt.Errorf("creating comments file: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	for _, c := range comments {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encoding comment %s: %w", c.ID, err)
		}
	}
	if err := buf.Flush(); err != nil {
		return err
	}

	manifest := Manifest{
		Platform:    platform,
		CollectedAt: time.Now().UTC().Format(time.RFC3339),
		Comments:    result.Collected,
		Requests:    result.Requests,
		ByGroup:     result.ByGroup,
	}
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644)
}
