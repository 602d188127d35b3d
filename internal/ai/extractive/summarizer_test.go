package extractive

import (
	"context"
	"strings"
	"testing"

	"github.com/spigell/resume-ranker/internal/ai"
)

func TestGenerateCollectsLeadSentences(t *testing.T) {
	prompt := "Given this job description: Go developer\nAnd this candidate resume: Jane Doe. Built payment services in Go. Loves Kafka!\nBriefly summarize why or why not this candidate fits the job."

	got, err := New().Generate(context.Background(), prompt, 10, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Jane Doe. Built payment services in Go. Loves Kafka."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestGenerateSkipsJobDescription(t *testing.T) {
	job := "We need a senior Python backend engineer. Must know Django and PostgreSQL. Remote friendly team in Berlin."
	resume := "John Smith. Django developer for six years. Tuned PostgreSQL for a fintech."
	prompt := ai.TruncateBalanced.Apply(job, resume, 1024)

	got, err := New().Generate(context.Background(), prompt, 20, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "John Smith. Django developer for six years. Tuned PostgreSQL for a fintech." {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestGenerateDropsCutInstruction(t *testing.T) {
	prompt := "Given this job description: Go\nAnd this candidate resume: Jane Doe. Kafka expert.\nBriefly summ"

	got, err := New().Generate(context.Background(), prompt, 20, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Jane Doe. Kafka expert." {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestGenerateFallsBackWhenResumeWasCut(t *testing.T) {
	prompt := "Given this job description: Senior Go engineer. Kubernetes"

	got, err := New().Generate(context.Background(), prompt, 3, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Given this job description: Senior Go engineer." {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestGenerateCapsAtMaxLength(t *testing.T) {
	prompt := strings.Repeat("word ", 100)

	got, err := New().Generate(context.Background(), prompt, 20, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(strings.Fields(got)); n != 60 {
		t.Fatalf("expected 60 words, got %d", n)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	prompt := "One. Two three. Four five six. Seven eight nine ten."
	s := New()

	first, err := s.Generate(context.Background(), prompt, 3, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := s.Generate(context.Background(), prompt, 3, 60)

	if first != second || first != "One. Two three." {
		t.Fatalf("unexpected outputs: %q / %q", first, second)
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := New().Generate(context.Background(), " \n. ", 20, 60); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Generate(ctx, "text", 20, 60); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
