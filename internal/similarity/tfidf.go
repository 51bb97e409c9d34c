// Package similarity scores how lexically close two documents are.
package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// MaxFeatures caps the joint vocabulary used for a single comparison.
const MaxFeatures = 500

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Score returns the TF-IDF cosine similarity of a and b scaled to [0, 100]
// and rounded to two decimals. It returns 0 for any degenerate input.
func Score(a, b string) float64 {
	docs := [2]map[string]float64{termCounts(a), termCounts(b)}
	vocab := vocabulary(docs, MaxFeatures)
	if len(vocab) == 0 {
		return 0
	}

	var va, vb []float64
	for i, doc := range docs {
		vec := weigh(doc, docs, vocab)
		if !normalize(vec) {
			return 0
		}
		if i == 0 {
			va = vec
		} else {
			vb = vec
		}
	}

	var dot float64
	for i := range vocab {
		dot += va[i] * vb[i]
	}

	score := math.Round(dot*100*100) / 100
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, tok := range tokenize(text) {
		counts[tok]++
	}
	return counts
}

// vocabulary keeps the limit most frequent terms across both documents,
// breaking ties alphabetically, and returns them sorted.
func vocabulary(docs [2]map[string]float64, limit int) []string {
	joint := make(map[string]float64)
	for _, doc := range docs {
		for term, n := range doc {
			joint[term] += n
		}
	}

	terms := make([]string, 0, len(joint))
	for term := range joint {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if joint[terms[i]] != joint[terms[j]] {
			return joint[terms[i]] > joint[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	sort.Strings(terms)
	return terms
}

// weigh applies smoothed idf: ln((1+n)/(1+df)) + 1.
func weigh(doc map[string]float64, docs [2]map[string]float64, vocab []string) []float64 {
	n := float64(len(docs))
	vec := make([]float64, len(vocab))
	for i, term := range vocab {
		tf := doc[term]
		if tf == 0 {
			continue
		}
		var df float64
		for _, d := range docs {
			if d[term] > 0 {
				df++
			}
		}
		vec[i] = tf * (math.Log((1+n)/(1+df)) + 1)
	}
	return vec
}

func normalize(vec []float64) bool {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return false
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return true
}
