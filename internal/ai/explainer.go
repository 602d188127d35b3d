package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-ranker/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultPromptLimit = 1024
	DefaultMinLength   = 20
	DefaultMaxLength   = 60

	defaultMaxLogLength = 200
)

// Generator produces a bounded-length text for a prompt. Implementations are
// expected to decode deterministically and return a single candidate.
type Generator interface {
	Generate(ctx context.Context, prompt string, minLen, maxLen int) (string, error)
	Provider() string
	Model() string
}

// Explainer writes a short rationale of how a resume fits a job.
type Explainer interface {
	Explain(ctx context.Context, job, resume string) (string, error)
}

type Config struct {
	Truncation   TruncationPolicy `mapstructure:"truncation"`
	PromptLimit  int              `mapstructure:"prompt-limit"`
	MinLength    int              `mapstructure:"min-length"`
	MaxLength    int              `mapstructure:"max-length"`
	MaxLogLength int              `mapstructure:"max-log-length"`
}

// FitExplainer builds the prompt for a job/resume pair and hands it to a Generator.
type FitExplainer struct {
	generator Generator
	policy    TruncationPolicy
	limit     int
	minLen    int
	maxLen    int
	maxLogLen int
	logger    *zap.Logger
}

func NewExplainer(generator Generator, cfg Config, logger *zap.Logger) (*FitExplainer, error) {
	if generator == nil {
		return nil, errors.New("generator is required")
	}

	policy, err := ParseTruncationPolicy(string(cfg.Truncation))
	if err != nil {
		return nil, err
	}

	e := &FitExplainer{
		generator: generator,
		policy:    policy,
		limit:     cfg.PromptLimit,
		minLen:    cfg.MinLength,
		maxLen:    cfg.MaxLength,
		maxLogLen: cfg.MaxLogLength,
		logger:    logger,
	}

	if e.limit <= 0 {
		e.limit = DefaultPromptLimit
	}
	if e.minLen <= 0 {
		e.minLen = DefaultMinLength
	}
	if e.maxLen <= 0 {
		e.maxLen = DefaultMaxLength
	}
	if e.minLen > e.maxLen {
		return nil, fmt.Errorf("min length %d exceeds max length %d", e.minLen, e.maxLen)
	}
	if e.maxLogLen <= 0 {
		e.maxLogLen = defaultMaxLogLength
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}

	return e, nil
}

func (e *FitExplainer) Explain(ctx context.Context, job, resume string) (string, error) {
	prompt := e.policy.Apply(job, resume, e.limit)

	e.logger.Debug("generate fit insight request",
		zap.String("truncation", string(e.policy)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	insight, err := e.generator.Generate(ctx, prompt, e.minLen, e.maxLen)
	if err != nil {
		return "", fmt.Errorf("generate fit insight: %w", err)
	}

	insight = strings.TrimSpace(insight)

	e.logger.Debug("generate fit insight response",
		zap.Int("response_length", utf8.RuneCountInString(insight)),
		zap.String("response_preview", utils.TruncateForLog(insight, e.maxLogLen)),
	)

	return insight, nil
}
