package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-ranker/internal/utils"
)

const (
	jobPrefix    = "Given this job description: "
	resumePrefix = "\nAnd this candidate resume: "
	instruction  = "\nBriefly summarize why or why not this candidate fits the job."
)

// TruncationPolicy decides how a prompt is cut down to the character budget.
type TruncationPolicy string

const (
	// TruncateCombined cuts the assembled prompt. A long job description can
	// push the resume and the instruction out of the budget.
	TruncateCombined TruncationPolicy = "combined"
	// TruncateBalanced splits the budget between job and resume and always
	// keeps the instruction.
	TruncateBalanced TruncationPolicy = "balanced"
)

func ParseTruncationPolicy(s string) (TruncationPolicy, error) {
	switch TruncationPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", TruncateCombined:
		return TruncateCombined, nil
	case TruncateBalanced:
		return TruncateBalanced, nil
	default:
		return "", fmt.Errorf("unknown truncation policy %q (want %s or %s)", s, TruncateCombined, TruncateBalanced)
	}
}

// BuildPrompt assembles the untruncated fit prompt.
func BuildPrompt(job, resume string) string {
	return jobPrefix + job + resumePrefix + resume + instruction
}

// ResumeSection returns the resume part of a prompt built by BuildPrompt,
// without the trailing instruction or the part of it that survived a cut.
// A prompt without the resume marker is returned as is.
func ResumeSection(prompt string) string {
	_, resume, found := strings.Cut(prompt, resumePrefix)
	if !found {
		return prompt
	}
	return trimPartialSuffix(resume, instruction)
}

func trimPartialSuffix(s, suffix string) string {
	for n := len(suffix); n > 0; n-- {
		if strings.HasSuffix(s, suffix[:n]) {
			return s[:len(s)-n]
		}
	}
	return s
}

// Apply returns the prompt for job and resume, at most limit runes long.
func (p TruncationPolicy) Apply(job, resume string, limit int) string {
	if p == TruncateBalanced {
		return balancedPrompt(job, resume, limit)
	}
	return utils.Head(BuildPrompt(job, resume), limit)
}

func balancedPrompt(job, resume string, limit int) string {
	fixed := utf8.RuneCountInString(jobPrefix + resumePrefix + instruction)
	budget := limit - fixed
	if limit <= 0 || budget <= 0 {
		return utils.Head(BuildPrompt(job, resume), limit)
	}

	jobLen := utf8.RuneCountInString(job)
	resumeLen := utf8.RuneCountInString(resume)
	if jobLen+resumeLen <= budget {
		return BuildPrompt(job, resume)
	}

	// Each side gets half; whatever one side leaves unused goes to the other.
	jobShare := budget / 2
	resumeShare := budget - jobShare
	switch {
	case jobLen < jobShare:
		resumeShare = budget - jobLen
	case resumeLen < resumeShare:
		jobShare = budget - resumeLen
	}

	return BuildPrompt(utils.Head(job, jobShare), utils.Head(resume, resumeShare))
}
