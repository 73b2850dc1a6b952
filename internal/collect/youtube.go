// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/textlab/corpus-engine/internal/httputil"
	"github.com/textlab/corpus-engine/pkg/types"
)

// youtubeBaseURL serves the YouTube Data API v3. Declared as a var so
// tests can substitute an httptest server.
var youtubeBaseURL = "https://www.googleapis.com"

const (
	youtubePageSize = 100

	// commentThreadsCost is the quota charge for one commentThreads.list
	// call. The daily project budget is 10000 units; the default run
	// budget of 7500 leaves headroom for other consumers.
	commentThreadsCost = 1
	defaultQuotaBudget = 7500
)

// YouTubeCollector reads top-level comment threads for configured videos
// under a per-run quota budget.
type YouTubeCollector struct {
	Client *http.Client
}

// Collect gathers comments from the configured videos, stopping when
// TargetCount is reached or the quota budget is spent, then writes the
// run to corpus/raw/youtube/.
func (c *YouTubeCollector) Collect(ctx context.Context, cfg types.CollectConfig, w io.Writer) (Result, error) {
	if cfg.YouTubeAPIKey == "" {
		return Result{}, fmt.Errorf("youtube API key not configured (set youtube-api-key in secrets)")
	}
	if len(cfg.VideoIDs) == 0 {
		return Result{}, fmt.Errorf("no video IDs configured")
	}
	if cfg.TargetCount <= 0 {
		cfg.TargetCount = 1000
	}
	budget := cfg.QuotaBudget
	if budget <= 0 {
		budget = defaultQuotaBudget
	}

	result := Result{ByGroup: map[string]int{}}
	var comments []Comment
	spent := 0

	for _, videoID := range cfg.VideoIDs {
		if result.Collected >= cfg.TargetCount || spent+commentThreadsCost > budget {
			break
		}
		fmt.Fprintf(w, "collecting: video %s\n", videoID)

		pageToken := ""
		for {
			if result.Collected >= cfg.TargetCount || spent+commentThreadsCost > budget {
				break
			}
			spent += commentThreadsCost

			body, err := c.commentThreadsPage(ctx, videoID, pageToken, cfg, &result)
			if err != nil {
				fmt.Fprintf(w, "failed:  video %s (%v)\n", videoID, err)
				break
			}

			for _, item := range gjson.GetBytes(body, "items").Array() {
				if result.Collected >= cfg.TargetCount {
					break
				}
				top := item.Get("snippet.topLevelComment")
				text := top.Get("snippet.textDisplay").Str
				if !usable(text) {
					continue
				}
				comments = append(comments, Comment{
					ID:      "youtube_" + top.Get("id").Str,
					Text:    text,
					Author:  top.Get("snippet.authorDisplayName").Str,
					VideoID: videoID,
					Score:   int(top.Get("snippet.likeCount").Int()),
				})
				result.Collected++
				result.ByGroup[videoID]++
			}

			pageToken = gjson.GetBytes(body, "nextPageToken").Str
			if pageToken == "" {
				break
			}
			pause(ctx, cfg.RequestDelay)
		}
		fmt.Fprintf(w, "collected %d comments from video %s\n", result.ByGroup[videoID], videoID)
	}

	dir := filepath.Join(cfg.CorpusDir, rawDir, "youtube")
	if err := writeRun(dir, "youtube", comments, result); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "\nyoutube: %d comments collected, %d quota units spent\n", result.Collected, spent)
	return result, nil
}

func (c *YouTubeCollector) commentThreadsPage(ctx context.Context, videoID, pageToken string, cfg types.CollectConfig, result *Result) ([]byte, error) {
	params := url.Values{
		"part":       {"snippet"},
		"videoId":    {videoID},
		"maxResults": {fmt.Sprintf("%d", youtubePageSize)},
		"textFormat": {"plainText"},
		"key":        {cfg.YouTubeAPIKey},
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	reqURL := youtubeBaseURL + "/youtube/v3/commentThreads?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	result.Requests++
	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("youtube request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return nil, fmt.Errorf("youtube returned HTTP 403 (comments disabled or quota exhausted)")
	default:
		return nil, fmt.Errorf("youtube returned HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
