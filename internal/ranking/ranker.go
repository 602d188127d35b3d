package ranking

import "sort"

// Score is the similarity of one resume to the job description. Index
// points into the resumes slice passed to Rank.
type Score struct {
	Index int     `json:"index"`
	Value float64 `json:"score"`
}

type Option func(*options)

type options struct {
	stopWords      []string
	minTokenLength int
}

// WithStopWords replaces the English stop-word list.
func WithStopWords(words []string) Option {
	return func(o *options) { o.stopWords = words }
}

func WithMinTokenLength(n int) Option {
	return func(o *options) { o.minTokenLength = n }
}

// Ranker is read-only after construction and safe for concurrent use.
type Ranker struct {
	vectorizer *Vectorizer
}

func New(opts ...Option) *Ranker {
	o := options{stopWords: EnglishStopWords, minTokenLength: defaultMinTokenLength}
	for _, opt := range opts {
		opt(&o)
	}

	return &Ranker{vectorizer: newVectorizer(o.stopWords, o.minTokenLength)}
}

// Rank scores every resume against the job description in a vector space
// built from all of them and returns the scores sorted from best to worst.
// Equal scores keep their input order.
func (r *Ranker) Rank(job string, resumes []string) []Score {
	if len(resumes) == 0 {
		return []Score{}
	}

	docs := make([]string, 0, len(resumes)+1)
	docs = append(docs, job)
	docs = append(docs, resumes...)

	rows := r.vectorizer.FitTransform(docs)

	scores := make([]Score, len(resumes))
	for i := range resumes {
		scores[i] = Score{Index: i, Value: Cosine(rows[0], rows[i+1])}
	}

	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].Value > scores[b].Value
	})

	return scores
}
