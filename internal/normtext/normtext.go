// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normtext cleans comment text for the unification and
// deduplication stages. It is a pipeline of independent transforms
// (HTML, URLs, mentions, Unicode, punctuation, Romanized Hindi spellings,
// whitespace) composed in a fixed order behind a toggle set.
//
// Every function is deterministic, side-effect free, and does no I/O.
package normtext

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/textlab/corpus-engine/pkg/types"
)

// Placeholders substituted for stripped entities.
const (
	URLPlaceholder     = "[URL]"
	EmailPlaceholder   = "[EMAIL]"
	MentionPlaceholder = "[MENTION]"
)

var (
	htmlTagRE    = regexp.MustCompile(`<[^>]+>`)
	urlRE        = regexp.MustCompile(`(?i)https?://[^\s<>"]+|www\.[^\s<>"]+`)
	emailRE      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	mentionRE    = regexp.MustCompile(`@\w+`)
	hashtagRE    = regexp.MustCompile(`#(\w+)`)
	multiPunctRE = regexp.MustCompile(`([!?.;,]){2,}`)
	whitespaceRE = regexp.MustCompile(`\s+`)
	nonWordRE    = regexp.MustCompile(`[^\w]`)
	punctRunRE   = regexp.MustCompile(`[^\w]+`)
)

// asciiPunct maps curly quotes, long dashes, and the ellipsis character to
// ASCII equivalents.
var asciiPunct = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"–", "-", // en dash
	"—", "-", // em dash
	"…", "...",
)

// emojiRanges lists the Unicode blocks stripped when emoji are not kept:
// emoticons, pictographs, transport and map symbols, flags, dingbats, and
// enclosed characters. Ranges overlap; membership is a linear scan.
var emojiRanges = [...][2]rune{
	{0x1F600, 0x1F64F},
	{0x1F300, 0x1F5FF},
	{0x1F680, 0x1F6FF},
	{0x1F1E0, 0x1F1FF},
	{0x2702, 0x27B0},
	{0x24C2, 0x1F251},
}

// Normalize runs the full cleaning pipeline over text. Enabled steps apply
// in a fixed order: HTML, URLs, emails, mentions, hashtags, Unicode, emoji,
// punctuation, Romanized Hindi, whitespace, lowercase. Empty input returns
// the empty string.
func Normalize(text string, cfg types.NormalizationConfig) string {
	if text == "" {
		return ""
	}

	if cfg.RemoveHTML {
		text = StripHTML(text)
	}
	if cfg.RemoveURL {
		text = ReplaceURLs(text)
	}
	if cfg.RemoveEmail {
		text = ReplaceEmails(text)
	}
	if cfg.RemoveMention {
		text = ReplaceMentions(text)
	}
	if cfg.NormalizeHashtag {
		text = UnwrapHashtags(text)
	}
	if cfg.NormalizeUnicode {
		text = NormalizeUnicode(text)
	}
	if !cfg.KeepEmoji {
		text = StripEmoji(text)
	}
	if cfg.NormalizePunctuation {
		text = NormalizePunctuation(text)
	}
	if cfg.NormalizeRomanized {
		text = NormalizeRomanized(text)
	}
	if cfg.NormalizeWhitespace {
		text = CollapseWhitespace(text)
	}
	if cfg.Lowercase {
		text = strings.ToLower(text)
	}

	return text
}

// StripHTML decodes HTML entities and removes tags.
func StripHTML(text string) string {
	return htmlTagRE.ReplaceAllString(html.UnescapeString(text), "")
}

// ReplaceURLs substitutes http(s):// and www. URLs with "[URL]".
func ReplaceURLs(text string) string {
	return urlRE.ReplaceAllString(text, URLPlaceholder)
}

// ReplaceEmails substitutes email addresses with "[EMAIL]".
func ReplaceEmails(text string) string {
	return emailRE.ReplaceAllString(text, EmailPlaceholder)
}

// ReplaceMentions substitutes @word tokens with "[MENTION]".
func ReplaceMentions(text string) string {
	return mentionRE.ReplaceAllString(text, MentionPlaceholder)
}

// UnwrapHashtags strips the leading # from hashtags, keeping the tag text.
func UnwrapHashtags(text string) string {
	return hashtagRE.ReplaceAllString(text, "$1")
}

// NormalizeUnicode applies NFKC normalization and drops control and format
// characters, keeping newline, carriage return, and tab.
func NormalizeUnicode(text string) string {
	text = norm.NFKC.String(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.In(r, unicode.C) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StripEmoji removes characters in the defined emoji block ranges.
func StripEmoji(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isEmoji(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isEmoji(r rune) bool {
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

// NormalizePunctuation collapses runs of repeated punctuation (!?.;,) to a
// single occurrence and maps curly quotes, dashes, and ellipsis to ASCII.
func NormalizePunctuation(text string) string {
	text = multiPunctRE.ReplaceAllString(text, "$1")
	return asciiPunct.Replace(text)
}

// NormalizeRomanized canonicalizes Romanized Hindi spellings using the
// built-in dictionary.
func NormalizeRomanized(text string) string {
	return NormalizeRomanizedWith(text, hindiRomanized)
}

// NormalizeRomanizedWith tokenizes text on whitespace and replaces each
// token whose lowercased, punctuation-stripped form appears in dict with
// the canonical spelling, restoring the original leading capitalization
// and re-attaching the token's first punctuation run. Tokens that miss the
// dictionary pass through unchanged; the substitution is single-pass and
// never re-normalizes its own output.
func NormalizeRomanizedWith(text string, dict map[string]string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	out := make([]string, len(words))
	for i, word := range words {
		key := nonWordRE.ReplaceAllString(strings.ToLower(word), "")
		canonical, ok := dict[key]
		if !ok || key == "" {
			out[i] = word
			continue
		}

		first := []rune(word)[0]
		if unicode.IsUpper(first) {
			canonical = capitalize(canonical)
		}
		if punct := punctRunRE.FindString(word); punct != "" {
			canonical += punct
		}
		out[i] = canonical
	}

	return strings.Join(out, " ")
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// CollapseWhitespace reduces whitespace runs to single spaces and trims
// the ends.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}
