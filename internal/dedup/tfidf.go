// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// tokenRE matches word tokens of two or more word characters.
var tokenRE = regexp.MustCompile(`\b\w\w+\b`)

// vectorizerOptions configures TF-IDF vectorization for near-duplicate
// detection.
type vectorizerOptions struct {
	// ngramMin and ngramMax bound the word n-gram range, inclusive.
	ngramMin int
	ngramMax int

	// maxFeatures caps the vocabulary at the most frequent terms.
	maxFeatures int

	// stopWords are excluded before n-gram construction.
	stopWords map[string]struct{}
}

// vectorize builds a row-normalized TF-IDF matrix over texts: one row per
// document, one column per vocabulary term. With unit rows, cosine
// similarity between documents reduces to a dot product.
//
// The second return value is false when the corpus yields an empty
// vocabulary (all texts empty or all tokens stop words).
func vectorize(texts []string, opts vectorizerOptions) (*mat.Dense, bool) {
	docs := make([]map[string]float64, len(texts))
	totals := make(map[string]float64)
	docFreq := make(map[string]int)

	for i, text := range texts {
		grams := ngrams(tokenize(text, opts.stopWords), opts.ngramMin, opts.ngramMax)
		counts := make(map[string]float64, len(grams))
		for _, g := range grams {
			counts[g]++
		}
		docs[i] = counts
		for g, c := range counts {
			totals[g] += c
			docFreq[g]++
		}
	}

	if len(totals) == 0 {
		return nil, false
	}

	vocab := selectVocabulary(totals, opts.maxFeatures)

	n := len(texts)
	f := len(vocab)
	matrix := mat.NewDense(n, f, nil)

	// Smoothed idf as if one extra document contained every term.
	idf := make([]float64, f)
	for term, col := range vocab {
		idf[col] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	for i, counts := range docs {
		row := matrix.RawRowView(i)
		for term, c := range counts {
			col, ok := vocab[term]
			if !ok {
				continue
			}
			row[col] = c * idf[col]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}

	return matrix, true
}

// tokenize lowercases text, extracts word tokens, and drops stop words.
func tokenize(text string, stopWords map[string]struct{}) []string {
	raw := tokenRE.FindAllString(strings.ToLower(text), -1)
	if len(stopWords) == 0 {
		return raw
	}
	tokens := raw[:0]
	for _, t := range raw {
		if _, stop := stopWords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// ngrams returns all space-joined word n-grams of tokens for n in
// [min, max].
func ngrams(tokens []string, min, max int) []string {
	var out []string
	for n := min; n <= max; n++ {
		if n <= 0 || n > len(tokens) {
			continue
		}
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// selectVocabulary keeps the maxFeatures most frequent terms, breaking
// frequency ties alphabetically, and assigns column indices in term order.
func selectVocabulary(totals map[string]float64, maxFeatures int) map[string]int {
	terms := make([]string, 0, len(totals))
	for t := range totals {
		terms = append(terms, t)
	}

	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if totals[terms[i]] != totals[terms[j]] {
				return totals[terms[i]] > totals[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}

	sort.Strings(terms)
	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}
	return vocab
}
