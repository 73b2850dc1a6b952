// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the corpus-engine CLI, the toxic
// comment dataset pipeline: download, collect, unify, dedup, quality,
// annotation, split, and store.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/textlab/corpus-engine/internal/secrets"
	"github.com/textlab/corpus-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the stored secret.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the corpus-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "corpus-engine",
	Short: "Build a multilingual toxic comment dataset",
	Long: `corpus-engine builds a labeled toxic comment dataset from public corpora
and social media. Each pipeline stage is a subcommand: download fetches the
source corpora, collect gathers Reddit and YouTube comments, unify maps
everything to one schema, dedup removes exact and near duplicates, quality
validates the result, annotation manages the labeling round, split creates
stratified train/dev/test partitions, and store maintains a SQLite index.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./corpus-engine.yaml or ~/.config/corpus-engine/config.yaml)")
	rootCmd.PersistentFlags().String("corpus-dir", "", "base directory for the corpus tree (default: corpus)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("corpus-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "corpus-engine"))
		}
	}

	viper.SetEnvPrefix("CORPUS_ENGINE")
	viper.AutomaticEnv()
	viper.SetDefault("corpus_dir", "corpus")
	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("http.user_agent", "corpus-engine/"+version)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// corpusDir resolves the corpus tree base: flag first, then config.
func corpusDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("corpus-dir"); dir != "" {
		return dir
	}
	return viper.GetString("corpus_dir")
}

func httpConfig() types.HTTPConfig {
	timeout := viper.GetDuration("http.timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: viper.GetString("http.user_agent"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
