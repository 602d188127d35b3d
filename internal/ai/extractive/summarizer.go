// Package extractive is an offline text generator that builds a summary from
// the leading sentences of the resume in a fit prompt. It needs no network or model weights
// and always returns the same output for the same input.
package extractive

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/resume-ranker/internal/ai"
)

const Provider = "extractive"

type Summarizer struct{}

func New() *Summarizer {
	return &Summarizer{}
}

func (s *Summarizer) Provider() string { return Provider }

func (s *Summarizer) Model() string { return "lead-sentences" }

// Generate takes whole sentences from the start of the prompt's resume section
// until at least minLen words are collected, then cuts the result to maxLen
// words. When the cut prompt lost the resume the whole prompt is used.
func (s *Summarizer) Generate(ctx context.Context, prompt string, minLen, maxLen int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sentences := splitIntoSentences(ai.ResumeSection(prompt))
	if len(sentences) == 0 {
		sentences = splitIntoSentences(prompt)
	}
	if len(sentences) == 0 {
		return "", errors.New("prompt must not be empty")
	}

	var words []string
	for _, sentence := range sentences {
		if minLen > 0 && len(words) >= minLen {
			break
		}
		fields := strings.Fields(sentence)
		fields[len(fields)-1] += "."
		words = append(words, fields...)
	}

	if maxLen > 0 && len(words) > maxLen {
		words = words[:maxLen]
	}

	return strings.Join(words, " "), nil
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}
