package ranking

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

const defaultMinTokenLength = 2

// Vectorizer turns a corpus into L2-normalised TF-IDF rows using raw term
// counts and smoothed idf: ln((1+n)/(1+df)) + 1.
type Vectorizer struct {
	stopWords      map[string]struct{}
	minTokenLength int
}

// Vector is a sparse row keyed by vocabulary term.
type Vector map[string]float64

func newVectorizer(stopWords []string, minTokenLength int) *Vectorizer {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[strings.ToLower(w)] = struct{}{}
	}
	if minTokenLength <= 0 {
		minTokenLength = defaultMinTokenLength
	}
	return &Vectorizer{stopWords: set, minTokenLength: minTokenLength}
}

// Tokenize lowercases the text and returns runs of letters, digits and
// underscores that are long enough and not stop words.
func (v *Vectorizer) Tokenize(text string) []string {
	var (
		tokens  []string
		current []rune
	)

	flush := func() {
		if len(current) >= v.minTokenLength {
			token := string(current)
			if _, stop := v.stopWords[token]; !stop {
				tokens = append(tokens, token)
			}
		}
		current = current[:0]
	}

	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			current = append(current, r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// FitTransform builds the vocabulary over docs and returns one row per doc.
// An empty vocabulary yields empty rows.
func (v *Vectorizer) FitTransform(docs []string) []Vector {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)

	for i, doc := range docs {
		tf := make(map[string]int)
		for _, token := range v.Tokenize(doc) {
			tf[token]++
		}
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	rows := make([]Vector, len(docs))
	for i, tf := range counts {
		row := make(Vector, len(tf))
		var norm float64
		for _, term := range terms(tf) {
			w := float64(tf[term]) * idf[term]
			row[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range row {
				row[term] /= norm
			}
		}
		rows[i] = row
	}

	return rows
}

// Cosine returns the cosine similarity of two rows. Zero rows give 0.
func Cosine(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}

	// Sums run in term order so identical rows always get identical scores.
	var dot, na, nb float64
	for _, term := range terms(a) {
		w := a[term]
		dot += w * b[term]
		na += w * w
	}
	for _, term := range terms(b) {
		nb += b[term] * b[term]
	}
	if na == 0 || nb == 0 {
		return 0
	}

	return clamp(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r)
}

func clamp(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

func terms[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
