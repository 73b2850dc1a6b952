// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package unify

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/textlab/corpus-engine/pkg/types"
)

// socialLoader reads the comments.jsonl runs written by the collect stage.
// Reddit and YouTube comments arrive unlabeled; language and code-mixing
// are detected here because these are the only sources where romanized
// Hindi is expected.
type socialLoader struct {
	platform string
}

func (l socialLoader) Name() string { return l.platform }

func (l socialLoader) Load(rawDir string) ([]types.Record, error) {
	f, err := os.Open(filepath.Join(rawDir, l.platform, "comments.jsonl"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []types.Record
	seen := map[string]bool{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		var c struct {
			ID         string  `json:"id"`
			Text       string  `json:"text"`
			Author     string  `json:"author"`
			Subreddit  string  `json:"subreddit"`
			VideoID    string  `json:"video_id"`
			Score      int     `json:"score"`
			CreatedUTC float64 `json:"created_utc"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &c); err != nil {
			return nil, fmt.Errorf("parsing %s comments line %d: %w", l.platform, line, err)
		}

		id := c.ID
		if seen[id] {
			id = fmt.Sprintf("%s_%d", c.ID, line)
		}
		seen[id] = true

		meta := map[string]string{
			"author": c.Author,
			"score":  strconv.Itoa(c.Score),
		}
		if c.Subreddit != "" {
			meta["subreddit"] = c.Subreddit
		}
		if c.VideoID != "" {
			meta["video_id"] = c.VideoID
		}

		records = append(records, types.Record{
			ID:        id,
			Text:      c.Text,
			Source:    l.platform,
			Language:  DetectLanguage(c.Text),
			CodeMixed: IsCodeMixed(c.Text),
			Metadata:  meta,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s comments: %w", l.platform, err)
	}
	return records, nil
}
