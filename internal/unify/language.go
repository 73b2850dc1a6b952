// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package unify

import (
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// hindiIndicators are common Hindi words in Roman script. Two or more of
// them in a reasonably long comment marks it as Hindi-English code-mixed.
var hindiIndicators = map[string]bool{
	"yaar": true, "bhai": true, "hai": true, "nahi": true, "kya": true,
	"mein": true, "hoon": true, "kar": true, "koi": true, "bhi": true,
	"toh": true, "tha": true, "kuch": true, "bahut": true, "acha": true,
	"bura": true, "matlab": true, "yeh": true, "woh": true, "kahan": true,
	"kaise": true, "kyun": true, "abhi": true,
}

// DetectLanguage returns an ISO 639-1 code for text. Script ranges take
// priority over statistical detection: Devanagari, Arabic, and CJK text is
// classified directly. Romanized Hindi slips past trigram models trained
// on native scripts, so a wordlist check runs before trusting a low-signal
// guess. Texts under ten runes carry too little signal and come back
// "unknown".
func DetectLanguage(text string) string {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < 10 {
		return "unknown"
	}

	for _, r := range trimmed {
		switch {
		case unicode.Is(unicode.Devanagari, r):
			return "hi"
		case r >= 0x0600 && r <= 0x06FF:
			return "ar"
		case r >= 0x4E00 && r <= 0x9FFF:
			return "zh"
		}
	}

	if hindiTokenCount(trimmed) >= 2 {
		return "hi"
	}

	info := whatlanggo.Detect(trimmed)
	if info.IsReliable() {
		if code := info.Lang.Iso6391(); code != "" {
			return code
		}
	}
	return "en"
}

// IsCodeMixed reports whether text mixes romanized Hindi into an English
// sentence: at least two Hindi indicator tokens in a text of at least five
// tokens.
func IsCodeMixed(text string) bool {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) < 5 {
		return false
	}
	return hindiTokenCount(text) >= 2
}

func hindiTokenCount(text string) int {
	count := 0
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if hindiIndicators[tok] {
			count++
		}
	}
	return count
}
