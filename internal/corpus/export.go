// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ExportJSONL writes the query result as JSONL.
func (s *Store) ExportJSONL(ctx context.Context, path string, q Query) (int, error) {
	records, err := s.Records(ctx, q)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return 0, fmt.Errorf("encoding record %s: %w", rec.ID, err)
		}
	}
	return len(records), buf.Flush()
}

// ExportCSV writes the query result as CSV with a fixed column order.
func (s *Store) ExportCSV(ctx context.Context, path string, q Query) (int, error) {
	records, err := s.Records(ctx, q)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"id", "text", "label", "source", "language", "code_mixed"}); err != nil {
		return 0, err
	}
	for _, rec := range records {
		label := ""
		if rec.Label != nil {
			label = strconv.Itoa(*rec.Label)
		}
		row := []string{rec.ID, rec.Text, label, rec.Source, rec.Language, strconv.FormatBool(rec.CodeMixed)}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("writing %s: %w", path, err)
		}
	}
	cw.Flush()
	return len(records), cw.Error()
}
