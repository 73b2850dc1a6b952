// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/textlab/corpus-engine/internal/httputil"
	"github.com/textlab/corpus-engine/pkg/types"
)

// redditBaseURL serves the public JSON listing API. Declared as a var so
// tests can substitute an httptest server.
var redditBaseURL = "https://www.reddit.com"

const (
	redditPostLimit    = 25
	redditCommentLimit = 100
)

// RedditCollector walks hot posts and their comment trees through the
// public listing API, no OAuth required.
type RedditCollector struct {
	Client *http.Client
}

// Collect gathers comments from the configured subreddits until
// TargetCount is reached or the subreddit list is exhausted, then writes
// the run to corpus/raw/reddit/.
func (c *RedditCollector) Collect(ctx context.Context, cfg types.CollectConfig, w io.Writer) (Result, error) {
	if len(cfg.Subreddits) == 0 {
		return Result{}, fmt.Errorf("no subreddits configured")
	}
	if cfg.TargetCount <= 0 {
		cfg.TargetCount = 1000
	}

	result := Result{ByGroup: map[string]int{}}
	var comments []Comment

	for _, sub := range cfg.Subreddits {
		if result.Collected >= cfg.TargetCount {
			break
		}
		fmt.Fprintf(w, "collecting: r/%s\n", sub)

		posts, err := c.hotPosts(ctx, sub, cfg, &result)
		if err != nil {
			fmt.Fprintf(w, "failed:  r/%s (%v)\n", sub, err)
			continue
		}

		for _, postID := range posts {
			if result.Collected >= cfg.TargetCount {
				break
			}
			pause(ctx, cfg.RequestDelay)

			tree, err := c.commentTree(ctx, sub, postID, cfg, &result)
			if err != nil {
				fmt.Fprintf(w, "failed:  r/%s post %s (%v)\n", sub, postID, err)
				continue
			}
			for _, cm := range tree {
				if result.Collected >= cfg.TargetCount {
					break
				}
				comments = append(comments, cm)
				result.Collected++
				result.ByGroup[sub]++
			}
		}
		fmt.Fprintf(w, "collected %d comments from r/%s\n", result.ByGroup[sub], sub)
	}

	dir := filepath.Join(cfg.CorpusDir, rawDir, "reddit")
	if err := writeRun(dir, "reddit", comments, result); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "\nreddit: %d comments collected in %d requests\n", result.Collected, result.Requests)
	return result, nil
}

// hotPosts returns the IDs of the current hot posts in a subreddit.
func (c *RedditCollector) hotPosts(ctx context.Context, sub string, cfg types.CollectConfig, result *Result) ([]string, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", redditBaseURL, sub, redditPostLimit)
	body, err := c.get(ctx, url, cfg, result)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, child := range gjson.GetBytes(body, "data.children").Array() {
		if id := child.Get("data.id").Str; id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// commentTree fetches one post's comments and flattens the reply tree.
func (c *RedditCollector) commentTree(ctx context.Context, sub, postID string, cfg types.CollectConfig, result *Result) ([]Comment, error) {
	url := fmt.Sprintf("%s/r/%s/comments/%s.json?limit=%d", redditBaseURL, sub, postID, redditCommentLimit)
	body, err := c.get(ctx, url, cfg, result)
	if err != nil {
		return nil, err
	}

	// The endpoint returns a two-element array: the post listing and the
	// comment listing.
	listings := gjson.ParseBytes(body).Array()
	if len(listings) < 2 {
		return nil, fmt.Errorf("unexpected comments response shape")
	}

	var comments []Comment
	walkRedditComments(listings[1], sub, &comments)
	return comments, nil
}

// walkRedditComments recurses through a comment listing, collecting usable
// comment bodies. The "replies" field is an empty string on leaves, so it
// is probed rather than decoded into a fixed shape.
func walkRedditComments(listing gjson.Result, sub string, out *[]Comment) {
	for _, child := range listing.Get("data.children").Array() {
		if child.Get("kind").Str != "t1" {
			continue
		}
		data := child.Get("data")
		if text := data.Get("body").Str; usable(text) {
			*out = append(*out, Comment{
				ID:         "reddit_" + data.Get("id").Str,
				Text:       text,
				Author:     data.Get("author").Str,
				Subreddit:  sub,
				Score:      int(data.Get("score").Int()),
				CreatedUTC: data.Get("created_utc").Float(),
			})
		}
		if replies := data.Get("replies"); replies.IsObject() {
			walkRedditComments(replies, sub, out)
		}
	}
}

func (c *RedditCollector) get(ctx context.Context, url string, cfg types.CollectConfig, result *Result) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	result.Requests++
	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("reddit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
