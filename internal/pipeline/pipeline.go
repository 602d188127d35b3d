package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spigell/resume-ranker/internal/ai"
	"github.com/spigell/resume-ranker/internal/extract"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/ranking"
	"github.com/spigell/resume-ranker/internal/resume"
	"go.uber.org/zap"
)

// DefaultTopN is how many candidates a ranking shows at most.
const DefaultTopN = 10

// NoResumesWarning is shown to users who submitted nothing to rank.
const NoResumesWarning = "Please upload or paste at least one resume."

var ErrNoResumes = errors.New("no resumes provided")

// Request is the input of one ranking pass.
type Request struct {
	JobDescription string
	Documents      []extract.RawDocument
	Pasted         string
}

// Deps holds the long-lived resources shared by every pass. Explainer may be
// nil, in which case candidates get no insight.
type Deps struct {
	Extractor *extract.Extractor
	Ranker    *ranking.Ranker
	Explainer ai.Explainer
	Logger    *zap.Logger
}

type Config struct {
	TopN int `mapstructure:"top"`
}

type Pipeline struct {
	extractor *extract.Extractor
	ranker    *ranking.Ranker
	explainer ai.Explainer
	topN      int
	logger    *zap.Logger
}

func New(cfg Config, deps Deps) *Pipeline {
	p := &Pipeline{
		extractor: deps.Extractor,
		ranker:    deps.Ranker,
		explainer: deps.Explainer,
		topN:      cfg.TopN,
		logger:    deps.Logger,
	}

	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.extractor == nil {
		p.extractor = extract.New(extract.Config{}, p.logger)
	}
	if p.ranker == nil {
		p.ranker = ranking.New()
	}
	if p.topN <= 0 {
		p.topN = DefaultTopN
	}

	return p
}

// Run performs one ranking pass: uploads are extracted first, pasted resumes
// follow, everything is ranked against the job description and the best
// candidates are named and explained in rank order.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	result := &Result{
		RequestID:      uuid.NewString(),
		JobDescription: req.JobDescription,
		TopN:           p.topN,
	}
	log := logger.WithRequestID(p.logger, result.RequestID)

	entries, docs, err := p.collect(ctx, req, log)
	if err != nil {
		return nil, err
	}
	result.Documents = docs
	result.Total = len(entries)

	if len(entries) == 0 {
		log.Warn("nothing to rank", zap.String("reason", NoResumesWarning))
		return result, ErrNoResumes
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.text
	}

	scores := p.ranker.Rank(req.JobDescription, texts)

	selected := topN(scores, p.topN)
	logStep(log, "select top candidates", Step{
		Initial: len(scores),
		Dropped: len(scores) - len(selected),
		Left:    len(selected),
	})

	candidates := make([]Candidate, 0, len(selected))
	for i, score := range selected {
		entry := entries[score.Index]
		candidate := Candidate{
			Rank:   i + 1,
			Name:   resume.GuessName(entry.text),
			Score:  score.Value,
			Source: entry.source,
			Index:  score.Index,
		}

		if p.explainer != nil {
			insight, err := p.explainer.Explain(ctx, req.JobDescription, entry.text)
			if err != nil {
				return nil, fmt.Errorf("explain candidate %d (%s): %w", candidate.Rank, candidate.Source, err)
			}
			candidate.Insight = insight
		}

		log.Info("candidate ranked", logger.CandidateFields(candidate.Rank, candidate.Name, candidate.Score)...)
		candidates = append(candidates, candidate)
	}

	result.Candidates = candidates
	return result, nil
}

type entry struct {
	text   string
	source string
}

func (p *Pipeline) collect(ctx context.Context, req Request, log *zap.Logger) ([]entry, []extract.Document, error) {
	docs, err := p.extractor.ExtractAll(ctx, req.Documents)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]entry, 0, len(docs))
	failed := 0
	for _, doc := range docs {
		if !doc.OK() {
			failed++
			log.Warn("document produced no text",
				zap.String("name", doc.Name),
				zap.String("status", string(doc.Status)),
				zap.String("error", doc.Error),
			)
		}
		entries = append(entries, entry{text: doc.Text, source: doc.Name})
	}
	logStep(log, "extract uploaded documents", Step{Initial: len(docs), Dropped: failed, Left: len(docs) - failed})

	pasted := resume.Split(req.Pasted)
	for i, text := range pasted {
		entries = append(entries, entry{text: text, source: fmt.Sprintf("pasted#%d", i+1)})
	}
	log.Info("split pasted resumes", zap.Int("count", len(pasted)))

	return entries, docs, nil
}

func topN(scores []ranking.Score, n int) []ranking.Score {
	if len(scores) < n {
		return scores
	}
	return scores[:n]
}
