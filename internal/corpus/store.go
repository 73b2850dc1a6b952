// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus persists unified records in a SQLite index so ad hoc
// queries and exports do not reparse the JSONL files. Ingest is
// incremental: a unified file is reloaded only when its mod time changes.
package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/textlab/corpus-engine/internal/unify"
	"github.com/textlab/corpus-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "corpus.db"
)

// Store manages the corpus index SQLite database.
type Store struct {
	db        *sql.DB
	corpusDir string
}

// NewStore opens or creates the index database at
// corpusDir/index/corpus.db, creating the schema on first open.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.CorpusDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, corpusDir: cfg.CorpusDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			label INTEGER,
			source TEXT NOT NULL,
			language TEXT,
			code_mixed INTEGER NOT NULL DEFAULT 0,
			dataset TEXT NOT NULL,
			metadata TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_source ON records(source)`,
		`CREATE INDEX IF NOT EXISTS idx_records_label ON records(label)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			dataset TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS ingest_runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			ingested INTEGER,
			updated INTEGER,
			skipped INTEGER
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from one ingest run.
type IngestSummary struct {
	Ingested int
	Updated  int
	Skipped  int
}

// Total returns the number of datasets processed.
func (s IngestSummary) Total() int { return s.Ingested + s.Updated + s.Skipped }

// Ingest loads the unified labeled and unlabeled files into the index.
// A dataset whose file mod time matches the stored one is skipped; a
// changed file replaces all of its dataset's rows.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	datasets := []struct {
		name string
		path string
	}{
		{"labeled", filepath.Join(s.corpusDir, "unified", "labeled", "records.jsonl")},
		{"unlabeled", filepath.Join(s.corpusDir, "unified", "unlabeled", "records.jsonl")},
	}

	var summary IngestSummary
	for _, ds := range datasets {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		info, err := os.Stat(ds.path)
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "skipped %s (no unified file)\n", ds.name)
			continue
		}
		if err != nil {
			return summary, err
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE dataset = ?`, ds.name,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s (unchanged)\n", ds.name)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		records, err := unify.ReadRecords(ds.path)
		if err != nil {
			return summary, fmt.Errorf("loading %s: %w", ds.name, err)
		}

		if err := s.ingestDataset(ctx, ds.name, records, modTime, isUpdate); err != nil {
			return summary, fmt.Errorf("ingesting %s: %w", ds.name, err)
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d records)\n", ds.name, len(records))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "ingested %s (%d records)\n", ds.name, len(records))
			summary.Ingested++
		}
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO ingest_runs (started_at, ingested, updated, skipped) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), summary.Ingested, summary.Updated, summary.Skipped,
	); err != nil {
		return summary, fmt.Errorf("recording ingest run: %w", err)
	}

	fmt.Fprintf(w, "\ningested: %d, updated: %d, skipped: %d\n",
		summary.Ingested, summary.Updated, summary.Skipped)
	return summary, nil
}

func (s *Store) ingestDataset(ctx context.Context, dataset string, records []types.Record, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE dataset = ?`, dataset); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO records
		(id, text, label, source, language, code_mixed, dataset, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		var label any
		if rec.Label != nil {
			label = *rec.Label
		}
		var metadata any
		if len(rec.Metadata) > 0 {
			data, err := json.Marshal(rec.Metadata)
			if err != nil {
				return fmt.Errorf("marshaling metadata for %s: %w", rec.ID, err)
			}
			metadata = string(data)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Text, label, rec.Source, rec.Language, rec.CodeMixed, dataset, metadata,
		); err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO ingest_status (dataset, file_mod_time) VALUES (?, ?)`,
		dataset, modTime,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Stats summarizes the indexed corpus.
type Stats struct {
	Records   int            `yaml:"records"`
	Labeled   int            `yaml:"labeled"`
	Toxic     int            `yaml:"toxic"`
	CodeMixed int            `yaml:"code_mixed"`
	BySource  map[string]int `yaml:"by_source"`
	ByLang    map[string]int `yaml:"by_language"`
}

// Stats queries aggregate counts from the index.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{BySource: map[string]int{}, ByLang: map[string]int{}}

	row := s.db.QueryRowContext(ctx, `SELECT
		count(*),
		count(label),
		coalesce(sum(label), 0),
		coalesce(sum(code_mixed), 0)
		FROM records`)
	if err := row.Scan(&stats.Records, &stats.Labeled, &stats.Toxic, &stats.CodeMixed); err != nil {
		return stats, fmt.Errorf("querying totals: %w", err)
	}

	for column, dest := range map[string]map[string]int{
		"source": stats.BySource, "language": stats.ByLang,
	} {
		rows, err := s.db.QueryContext(ctx,
			fmt.Sprintf(`SELECT %s, count(*) FROM records GROUP BY %s`, column, column))
		if err != nil {
			return stats, fmt.Errorf("querying by %s: %w", column, err)
		}
		for rows.Next() {
			var key string
			var count int
			if err := rows.Scan(&key, &count); err != nil {
				rows.Close()
				return stats, err
			}
			dest[key] = count
		}
		if err := rows.Close(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// Query filters indexed records. Zero-value fields match everything.
type Query struct {
	Dataset string
	Source  string
	Label   *int
	Limit   int
}

// Records runs a filtered query against the index in insertion order.
func (s *Store) Records(ctx context.Context, q Query) ([]types.Record, error) {
	where := "1=1"
	args := []any{}
	if q.Dataset != "" {
		where += " AND dataset = ?"
		args = append(args, q.Dataset)
	}
	if q.Source != "" {
		where += " AND source = ?"
		args = append(args, q.Source)
	}
	if q.Label != nil {
		where += " AND label = ?"
		args = append(args, *q.Label)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, text, label, source, language, code_mixed, metadata
		 FROM records WHERE %s LIMIT ?`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var rec types.Record
		var label sql.NullInt64
		var metadata sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Text, &label, &rec.Source, &rec.Language, &rec.CodeMixed, &metadata); err != nil {
			return nil, err
		}
		if label.Valid {
			rec.Label = types.IntPtr(int(label.Int64))
		}
		if metadata.Valid {
			if err := json.Unmarshal([]byte(metadata.String), &rec.Metadata); err != nil {
				return nil, fmt.Errorf("parsing metadata for %s: %w", rec.ID, err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
