// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package unify

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/textlab/corpus-engine/pkg/types"
)

// jigsawLoader reads a Jigsaw multilingual CSV dropped manually into
// corpus/raw/jigsaw/ (the dataset requires a Kaggle account, so there is
// no download stage for it). Expected columns: id, comment_text, lang,
// toxic.
type jigsawLoader struct{}

func (jigsawLoader) Name() string { return "jigsaw" }

func (jigsawLoader) Load(rawDir string) ([]types.Record, error) {
	f, err := os.Open(filepath.Join(rawDir, "jigsaw", "validation.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading jigsaw header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"id", "comment_text", "toxic"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("jigsaw CSV missing column %q", required)
		}
	}

	var records []types.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading jigsaw row: %w", err)
		}

		toxic, err := strconv.Atoi(row[col["toxic"]])
		if err != nil {
			continue
		}

		lang := "unknown"
		if i, ok := col["lang"]; ok && row[i] != "" {
			lang = row[i]
		}

		records = append(records, types.Record{
			ID:       "jigsaw_" + row[col["id"]],
			Text:     row[col["comment_text"]],
			Label:    types.IntPtr(toxic),
			Source:   "jigsaw",
			Language: lang,
			Metadata: map[string]string{"original_id": row[col["id"]]},
		})
	}
	return records, nil
}
