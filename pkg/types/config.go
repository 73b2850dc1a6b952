// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "corpus-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// NormalizationConfig is the fixed set of toggles for the text normalization
// pipeline. Steps run in a fixed order regardless of which are enabled.
type NormalizationConfig struct {
	// RemoveHTML decodes HTML entities and strips tags.
	RemoveHTML bool `json:"remove_html" yaml:"remove_html"`

	// RemoveURL replaces http(s):// and www. URLs with "[URL]".
	RemoveURL bool `json:"remove_url" yaml:"remove_url"`

	// RemoveEmail replaces email addresses with "[EMAIL]".
	RemoveEmail bool `json:"remove_email" yaml:"remove_email"`

	// RemoveMention replaces @mentions with "[MENTION]".
	RemoveMention bool `json:"remove_mention" yaml:"remove_mention"`

	// NormalizeHashtag strips the leading # but keeps the tag text.
	NormalizeHashtag bool `json:"normalize_hashtag" yaml:"normalize_hashtag"`

	// NormalizePunctuation collapses repeated punctuation and maps curly
	// quotes, dashes, and ellipsis to ASCII.
	NormalizePunctuation bool `json:"normalize_punctuation" yaml:"normalize_punctuation"`

	// NormalizeWhitespace collapses whitespace runs and trims ends.
	NormalizeWhitespace bool `json:"normalize_whitespace" yaml:"normalize_whitespace"`

	// NormalizeUnicode applies NFKC and drops control characters.
	NormalizeUnicode bool `json:"normalize_unicode" yaml:"normalize_unicode"`

	// NormalizeRomanized canonicalizes Romanized Hindi spellings.
	NormalizeRomanized bool `json:"normalize_romanized" yaml:"normalize_romanized"`

	// KeepEmoji retains emoji; when false, emoji block ranges are stripped.
	KeepEmoji bool `json:"keep_emoji" yaml:"keep_emoji"`

	// Lowercase case-folds the final result.
	Lowercase bool `json:"lowercase" yaml:"lowercase"`
}

// Normalization presets. Each resolves to a concrete NormalizationConfig
// before the pipeline runs; there is no dynamic dispatch.
const (
	PresetDefault   = "default"
	PresetStrict    = "strict"
	PresetMinimal   = "minimal"
	PresetCodeMixed = "code_mixed"
)

// NormalizationPreset returns the named preset configuration.
// Unknown names are a configuration error.
func NormalizationPreset(name string) (NormalizationConfig, error) {
	switch name {
	case PresetDefault, PresetCodeMixed:
		// code_mixed matches default: Romanized normalization is already on,
		// which is what code-mixed text needs.
		return NormalizationConfig{
			RemoveHTML:           true,
			RemoveURL:            true,
			RemoveEmail:          true,
			RemoveMention:        true,
			NormalizeHashtag:     true,
			NormalizePunctuation: true,
			NormalizeWhitespace:  true,
			NormalizeUnicode:     true,
			NormalizeRomanized:   true,
			KeepEmoji:            true,
		}, nil
	case PresetStrict:
		return NormalizationConfig{
			RemoveHTML:           true,
			RemoveURL:            true,
			RemoveEmail:          true,
			RemoveMention:        true,
			NormalizeHashtag:     false,
			NormalizePunctuation: true,
			NormalizeWhitespace:  true,
			NormalizeUnicode:     true,
			NormalizeRomanized:   true,
			KeepEmoji:            false,
			Lowercase:            true,
		}, nil
	case PresetMinimal:
		return NormalizationConfig{
			RemoveHTML:           true,
			NormalizePunctuation: true,
			NormalizeWhitespace:  true,
			NormalizeUnicode:     true,
			KeepEmoji:            true,
		}, nil
	default:
		return NormalizationConfig{}, fmt.Errorf("unknown normalization preset %q", name)
	}
}

// KeepPolicy selects which record of a duplicate cluster survives.
type KeepPolicy string

const (
	// KeepFirst retains the record with the lowest original index.
	KeepFirst KeepPolicy = "first"
	// KeepLast retains the record with the highest original index.
	KeepLast KeepPolicy = "last"
)

// Valid reports whether the policy is one of the defined values.
func (k KeepPolicy) Valid() bool { return k == KeepFirst || k == KeepLast }

// DedupConfig holds settings for the deduplication stage.
type DedupConfig struct {
	// Exact enables exact-duplicate removal by normalized-text hash.
	Exact bool `json:"exact" yaml:"exact"`

	// Near enables near-duplicate removal by TF-IDF cosine similarity.
	Near bool `json:"near" yaml:"near"`

	// NearThreshold is the cosine similarity threshold in (0, 1]. Default 0.95.
	NearThreshold float64 `json:"near_threshold" yaml:"near_threshold"`

	// NgramMin and NgramMax bound the word n-gram range. Defaults 1 and 3.
	NgramMin int `json:"ngram_min" yaml:"ngram_min"`
	NgramMax int `json:"ngram_max" yaml:"ngram_max"`

	// MaxFeatures caps the TF-IDF vocabulary size. Default 10000.
	MaxFeatures int `json:"max_features" yaml:"max_features"`

	// BatchSize bounds the similarity matrix to batch_size x n_samples rows
	// at a time. Default 1000.
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Keep selects the surviving record per cluster. Default "first".
	Keep KeepPolicy `json:"keep" yaml:"keep"`
}

// DedupStats summarizes a deduplication run.
type DedupStats struct {
	OriginalSize int     `json:"original_size" yaml:"original_size"`
	ExactRemoved int     `json:"exact_removed" yaml:"exact_removed"`
	NearRemoved  int     `json:"near_removed" yaml:"near_removed"`
	FinalSize    int     `json:"final_size" yaml:"final_size"`
	TotalRemoved int     `json:"total_removed" yaml:"total_removed"`
	DedupRatePct float64 `json:"dedup_rate_pct" yaml:"dedup_rate_pct"`
}

// DownloadConfig holds settings for the source-corpus download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// CorpusDir is the base directory for the corpus tree (contains raw/,
	// unified/, reports/, splits/, index/).
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`
}

// CollectConfig holds settings for the social-media collectors.
type CollectConfig struct {
	HTTPConfig `yaml:",inline"`

	// CorpusDir is the base directory for the corpus tree.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// TargetCount is the number of comments to aim for per run.
	TargetCount int `json:"target_count" yaml:"target_count"`

	// RequestDelay is the pause between consecutive API requests.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// Subreddits lists the subreddits the Reddit collector walks.
	Subreddits []string `json:"subreddits" yaml:"subreddits"`

	// VideoIDs lists the YouTube videos the YouTube collector reads.
	VideoIDs []string `json:"video_ids" yaml:"video_ids"`

	// YouTubeAPIKey authenticates YouTube Data API requests.
	YouTubeAPIKey string `json:"youtube_api_key,omitempty" yaml:"youtube_api_key,omitempty"`

	// QuotaBudget caps YouTube Data API quota units per run. Default 7500.
	QuotaBudget int `json:"quota_budget" yaml:"quota_budget"`
}

// UnifyConfig holds settings for the schema unification stage.
type UnifyConfig struct {
	// CorpusDir is the base directory for the corpus tree.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// Preset names the normalization preset applied to unified text.
	// Default "code_mixed".
	Preset string `json:"preset" yaml:"preset"`

	// MinLength drops records whose raw text is shorter. Default 10.
	MinLength int `json:"min_length" yaml:"min_length"`
}

// SplitConfig holds settings for stratified split creation.
type SplitConfig struct {
	// TrainFrac, DevFrac, and TestFrac must sum to 1. Defaults 0.70/0.15/0.15.
	TrainFrac float64 `json:"train_frac" yaml:"train_frac"`
	DevFrac   float64 `json:"dev_frac" yaml:"dev_frac"`
	TestFrac  float64 `json:"test_frac" yaml:"test_frac"`

	// Seed fixes the shuffle for reproducible splits. Default 42.
	Seed int64 `json:"seed" yaml:"seed"`

	// CorpusDir is the base directory for the corpus tree.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`
}

// AnnotationConfig holds settings for the annotation stage.
type AnnotationConfig struct {
	// CorpusDir is the base directory for the corpus tree.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// PilotSize is the number of items sampled for pilot annotation. Default 1000.
	PilotSize int `json:"pilot_size" yaml:"pilot_size"`

	// Seed fixes the pilot sample. Default 42.
	Seed int64 `json:"seed" yaml:"seed"`
}

// StoreConfig holds settings for the corpus index store.
type StoreConfig struct {
	// CorpusDir is the base directory for the corpus tree. The database
	// lives at CorpusDir/index/corpus.db.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Download   DownloadConfig   `json:"download" yaml:"download"`
	Collect    CollectConfig    `json:"collect" yaml:"collect"`
	Unify      UnifyConfig      `json:"unify" yaml:"unify"`
	Dedup      DedupConfig      `json:"dedup" yaml:"dedup"`
	Split      SplitConfig      `json:"split" yaml:"split"`
	Annotation AnnotationConfig `json:"annotation" yaml:"annotation"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}
