package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
	lastMin    int
	lastMax    int
	calls      int
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, minLen, maxLen int) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastMin = minLen
	s.lastMax = maxLen
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Provider() string { return "stub" }
func (s *stubGenerator) Model() string    { return "stub-model" }

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("Go developer", "Jane Doe")
	want := "Given this job description: Go developer\nAnd this candidate resume: Jane Doe\nBriefly summarize why or why not this candidate fits the job."
	if got != want {
		t.Fatalf("unexpected prompt:\n%s", got)
	}
}

func TestResumeSection(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"full prompt", BuildPrompt("Go", "Jane Doe\nKafka"), "Jane Doe\nKafka"},
		{"cut instruction", "Given this job description: Go\nAnd this candidate resume: Jane\nBriefly sum", "Jane"},
		{"cut resume", "Given this job description: Go\nAnd this candidate resume: Ja", "Ja"},
		{"no resume", "Given this job description: Go developer", "Given this job description: Go developer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResumeSection(tt.prompt); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExplainSendsPromptWithBounds(t *testing.T) {
	stub := &stubGenerator{response: "  Strong backend match.  "}
	explainer, err := NewExplainer(stub, Config{}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insight, err := explainer.Explain(context.Background(), "Python backend engineer", "Jane Doe\nPython, Django")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if insight != "Strong backend match." {
		t.Fatalf("unexpected insight: %q", insight)
	}
	if stub.lastPrompt != BuildPrompt("Python backend engineer", "Jane Doe\nPython, Django") {
		t.Fatalf("unexpected prompt: %q", stub.lastPrompt)
	}
	if stub.lastMin != DefaultMinLength || stub.lastMax != DefaultMaxLength {
		t.Fatalf("unexpected bounds: %d..%d", stub.lastMin, stub.lastMax)
	}
}

func TestExplainCombinedTruncation(t *testing.T) {
	stub := &stubGenerator{response: "ok"}
	explainer, err := NewExplainer(stub, Config{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job := strings.Repeat("й", 2000)
	if _, err := explainer.Explain(context.Background(), job, "Jane Doe"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := utf8.RuneCountInString(stub.lastPrompt); n != DefaultPromptLimit {
		t.Fatalf("expected prompt of %d runes, got %d", DefaultPromptLimit, n)
	}
	if strings.Contains(stub.lastPrompt, "Jane Doe") {
		t.Fatalf("expected long job description to push the resume out of the prompt")
	}
	if !strings.HasPrefix(stub.lastPrompt, "Given this job description: ") {
		t.Fatalf("unexpected prompt start: %q", stub.lastPrompt[:40])
	}
}

func TestBalancedTruncation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		job    string
		resume string
	}{
		{name: "long job", job: strings.Repeat("j", 5000), resume: "Jane Doe, Go"},
		{name: "long resume", job: "Go developer", resume: strings.Repeat("r", 5000)},
		{name: "both long", job: strings.Repeat("j", 5000), resume: strings.Repeat("r", 5000)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			prompt := TruncateBalanced.Apply(tc.job, tc.resume, DefaultPromptLimit)
			if n := utf8.RuneCountInString(prompt); n != DefaultPromptLimit {
				t.Fatalf("expected %d runes, got %d", DefaultPromptLimit, n)
			}
			if !strings.HasSuffix(prompt, instruction) {
				t.Fatalf("expected instruction to survive truncation")
			}
			if !strings.Contains(prompt, resumePrefix+tc.resume[:1]) {
				t.Fatalf("expected resume section to be present")
			}
		})
	}

	short := TruncateBalanced.Apply("job", "resume", DefaultPromptLimit)
	if short != BuildPrompt("job", "resume") {
		t.Fatalf("expected short prompt to be left untouched, got %q", short)
	}
}

func TestParseTruncationPolicy(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]TruncationPolicy{
		"":          TruncateCombined,
		"combined":  TruncateCombined,
		" Balanced": TruncateBalanced,
	} {
		got, err := ParseTruncationPolicy(input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("expected %s for %q, got %s", want, input, got)
		}
	}

	if _, err := ParseTruncationPolicy("per-side"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestNewExplainerValidation(t *testing.T) {
	if _, err := NewExplainer(nil, Config{}, nil); err == nil {
		t.Fatal("expected error without generator")
	}
	if _, err := NewExplainer(&stubGenerator{}, Config{MinLength: 80, MaxLength: 60}, nil); err == nil {
		t.Fatal("expected error when min exceeds max")
	}
	if _, err := NewExplainer(&stubGenerator{}, Config{Truncation: "nope"}, nil); err == nil {
		t.Fatal("expected error for unknown truncation")
	}
}

func TestExplainWrapsGeneratorError(t *testing.T) {
	sentinel := errors.New("boom")
	core, observed := observer.New(zapcore.DebugLevel)

	explainer, err := NewExplainer(&stubGenerator{err: sentinel}, Config{}, zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := explainer.Explain(context.Background(), "job", "resume"); !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}

	if observed.FilterMessage("generate fit insight request").Len() != 1 {
		t.Fatalf("expected request to be logged")
	}
}
