// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package unify

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/textlab/corpus-engine/pkg/types"
)

// textdetoxLoader reads the per-language JSONL splits written by the
// download stage. Rows carry no IDs, so each record gets a fresh one.
type textdetoxLoader struct{}

func (textdetoxLoader) Name() string { return "textdetox" }

func (textdetoxLoader) Load(rawDir string) ([]types.Record, error) {
	dir := filepath.Join(rawDir, "textdetox")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var records []types.Record
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		lang := strings.TrimSuffix(entry.Name(), ".jsonl")

		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			var row struct {
				Text     string `json:"text"`
				Toxic    int    `json:"toxic"`
				Language string `json:"language"`
			}
			if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
				f.Close()
				return nil, fmt.Errorf("parsing textdetox %s: %w", entry.Name(), err)
			}
			if row.Language == "" {
				row.Language = lang
			}
			records = append(records, types.Record{
				ID:       "textdetox_" + uuid.NewString()[:12],
				Text:     row.Text,
				Label:    types.IntPtr(row.Toxic),
				Source:   "textdetox",
				Language: row.Language,
				Metadata: map[string]string{"language_file": lang},
			})
		}
		if err := scanner.Err(); err != nil {
			f.Close()
			return nil, fmt.Errorf("reading textdetox %s: %w", entry.Name(), err)
		}
		f.Close()
	}
	return records, nil
}
