//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// engine runs the built CLI with the given arguments.
func engine(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Download fetches the public benchmark datasets into corpus/raw/.
func Download() error {
	mg.Deps(Build)
	return engine("download")
}

// Collect scrapes social comments from Reddit into corpus/raw/reddit/.
func Collect() error {
	mg.Deps(Build)
	return engine("collect", "reddit")
}

// Unify merges the raw sources into the unified labeled/unlabeled corpus.
func Unify() error {
	mg.Deps(Build)
	return engine("unify")
}

// Dedup removes exact and near duplicates from the labeled corpus.
func Dedup() error {
	mg.Deps(Build)
	return engine("dedup", "labeled")
}

// Quality runs the data quality checks and writes the quality report.
func Quality() error {
	mg.Deps(Build)
	return engine("quality")
}

// Split creates stratified train/dev/test splits from the labeled corpus.
func Split() error {
	mg.Deps(Build)
	return engine("split")
}

// Ingest loads the unified corpus into the SQLite index.
func Ingest() error {
	mg.Deps(Build)
	return engine("store", "ingest")
}

// Pipeline runs the full data pipeline end to end: download, unify,
// dedup, quality, split, ingest. Collection is excluded because it
// needs network credentials and rate-limited scraping.
func Pipeline() error {
	mg.Deps(Build)
	for _, stage := range [][]string{
		{"download"},
		{"unify"},
		{"dedup", "labeled"},
		{"quality"},
		{"split"},
		{"store", "ingest"},
	} {
		if err := engine(stage...); err != nil {
			return err
		}
	}
	return nil
}
