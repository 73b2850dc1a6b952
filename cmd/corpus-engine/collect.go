// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/textlab/corpus-engine/internal/collect"
	"github.com/textlab/corpus-engine/pkg/types"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Gather social-media comments for annotation",
	Long: `Collect gathers unlabeled comments from social platforms into
corpus/raw/. Use the reddit or youtube subcommand; both honor the shared
--target and --delay flags.`,
}

var collectRedditCmd = &cobra.Command{
	Use:   "reddit",
	Short: "Walk subreddit comment trees through the public JSON API",
	RunE:  runCollectReddit,
}

func runCollectReddit(cmd *cobra.Command, args []string) error {
	cfg := collectConfig(cmd)
	subreddits, _ := cmd.Flags().GetStringSlice("subreddits")
	cfg.Subreddits = subreddits

	c := &collect.RedditCollector{Client: &http.Client{Timeout: cfg.Timeout}}
	_, err := c.Collect(context.Background(), cfg, os.Stdout)
	return err
}

var collectYoutubeCmd = &cobra.Command{
	Use:   "youtube",
	Short: "Read video comment threads through the YouTube Data API",
	Long: `Youtube reads top-level comment threads for the given videos. The API
key comes from --api-key or the youtube-api-key secret; each request costs
one quota unit and the run stops at --quota.`,
	RunE: runCollectYoutube,
}

func runCollectYoutube(cmd *cobra.Command, args []string) error {
	cfg := collectConfig(cmd)
	videos, _ := cmd.Flags().GetStringSlice("videos")
	cfg.VideoIDs = videos
	apiKey, _ := cmd.Flags().GetString("api-key")
	cfg.YouTubeAPIKey = secretDefault("youtube-api-key", apiKey)
	cfg.QuotaBudget, _ = cmd.Flags().GetInt("quota")

	c := &collect.YouTubeCollector{Client: &http.Client{Timeout: cfg.Timeout}}
	_, err := c.Collect(context.Background(), cfg, os.Stdout)
	return err
}

func collectConfig(cmd *cobra.Command) types.CollectConfig {
	target, _ := cmd.Flags().GetInt("target")
	delay, _ := cmd.Flags().GetDuration("delay")
	return types.CollectConfig{
		HTTPConfig:   httpConfig(),
		CorpusDir:    corpusDir(cmd),
		TargetCount:  target,
		RequestDelay: delay,
	}
}

func init() {
	collectCmd.PersistentFlags().Int("target", 1000, "number of comments to collect")
	collectCmd.PersistentFlags().Duration("delay", 2*time.Second, "pause between API requests")

	collectRedditCmd.Flags().StringSlice("subreddits", []string{
		"india", "IndiaSpeaks", "bollywood", "IndianCinema", "Cricket",
		"mumbai", "delhi", "bangalore", "hyderabad", "desimemes",
	}, "subreddits to walk")

	collectYoutubeCmd.Flags().StringSlice("videos", nil, "YouTube video IDs to read")
	collectYoutubeCmd.Flags().String("api-key", "", "YouTube Data API key (overrides the stored secret)")
	collectYoutubeCmd.Flags().Int("quota", 7500, "YouTube quota unit budget for this run")

	collectCmd.AddCommand(collectRedditCmd)
	collectCmd.AddCommand(collectYoutubeCmd)
	rootCmd.AddCommand(collectCmd)
}
