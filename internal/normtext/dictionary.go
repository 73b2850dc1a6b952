// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normtext

// hindiRomanized maps common Romanized Hindi spellings to canonical forms.
// The table is the package default for NormalizeRomanized; callers override
// it per call via NormalizeRomanizedWith. It is never mutated.
var hindiRomanized = map[string]string{
	// Greetings and common phrases.
	"namaste":    "namaste",
	"namaskar":   "namaskar",
	"dhanyavaad": "dhanyavad",
	"dhanyavad":  "dhanyavad",
	"thanks":     "thanks",
	"shukriya":   "shukriya",
	"shukria":    "shukriya",

	// Common words, variant spellings mapped to one standard form.
	"bhai":    "bhai",
	"bhaii":   "bhai",
	"bhaiya":  "bhaiya",
	"bhaiyya": "bhaiya",
	"yaar":    "yaar",
	"yar":     "yaar",
	"yaara":   "yara",
	"hai":     "hai",
	"he":      "hai",
	"hain":    "hain",
	"hoon":    "hoon",
	"hun":     "hoon",
	"hu":      "hoon",
	"nahi":    "nahi",
	"nahin":   "nahi",
	"nai":     "nahi",
	"nhi":     "nahi",
	"kya":     "kya",
	"kia":     "kya",
	"kyaa":    "kya",
	"mein":    "mein",
	"main":    "mein",
	"me":      "mein",
	"aap":     "aap",
	"aapka":   "aapka",
	"aapki":   "aapki",
	"kar":     "kar",
	"karo":    "karo",
	"karna":   "karna",
	"karta":   "karta",
	"tha":     "tha",
	"thi":     "thi",
	"the":     "the",
	"thee":    "the",
	"koi":     "koi",
	"kisi":    "kisi",
	"kisiko":  "kisiko",
	"bhi":     "bhi",
	"b":       "bhi",
	"toh":     "toh",
	"to":      "toh",
	"kuch":    "kuch",
	"kuchh":   "kuch",
	"kucch":   "kuch",
	"bahut":   "bahut",
	"bohot":   "bahut",
	"bhot":    "bahut",
	"acha":    "acha",
	"accha":   "acha",
	"achha":   "acha",
	"achchha": "acha",
	"bura":    "bura",
	"buraa":   "bura",
	"matlab":  "matlab",
	"mtlb":    "matlab",
	"matlb":   "matlab",
	"yeh":     "yeh",
	"ye":      "yeh",
	"yee":     "yeh",
	"woh":     "woh",
	"wo":      "woh",
	"vo":      "woh",
	"kahan":   "kahan",
	"kaha":    "kaha",
	"kahaan":  "kahan",
	"kaise":   "kaise",
	"kese":    "kaise",
	"kaese":   "kaise",
	"kyun":    "kyun",
	"kyu":     "kyun",
	"kyon":    "kyun",
	"why":     "kyun",
	"abhi":    "abhi",
	"abi":     "abhi",
	"abhee":   "abhi",
	"log":     "log",
	"lok":     "log",
	"loog":    "log",
	"loag":    "log",
	"sahi":    "sahi",
	"sahee":   "sahi",
	"shi":     "sahi",
	"galat":   "galat",
	"ghalat":  "galat",
	"glat":    "galat",
	"dekho":   "dekho",
	"dekh":    "dekh",
	"dekhna":  "dekhna",
	"suno":    "suno",
	"sun":     "sun",
	"sunna":   "sunna",
	"samjho":  "samajho",
	"samajh":  "samajh",
	"smjho":   "samajho",
	"dost":    "dost",
	"dosth":   "dost",
	"doost":   "dost",
	"pakka":   "pakka",
	"paka":    "pakka",
	"pukka":   "pakka",
	"chalo":   "chalo",
	"chal":    "chal",
	"chlo":    "chalo",
	"theek":   "theek",
	"thik":    "theek",
	"thek":    "theek",
}

// DefaultDictionary returns a copy of the built-in Romanized Hindi table,
// so callers can extend it without touching the package default.
func DefaultDictionary() map[string]string {
	out := make(map[string]string, len(hindiRomanized))
	for k, v := range hindiRomanized {
		out[k] = v
	}
	return out
}
