package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/resume-ranker/internal/extract"
	"go.uber.org/zap"
)

// Candidate is one entry of the final ranking.
type Candidate struct {
	Rank    int     `json:"rank"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Insight string  `json:"insight,omitempty"`
	Source  string  `json:"source"`
	// Index is the position of the resume among all ranked resumes.
	Index int `json:"index"`
}

type Result struct {
	RequestID      string             `json:"request_id"`
	JobDescription string             `json:"job_description"`
	Total          int                `json:"total"`
	TopN           int                `json:"top"`
	Candidates     []Candidate        `json:"candidates"`
	Documents      []extract.Document `json:"documents,omitempty"`
}

// Step describes how many items a stage of the pass received, dropped and kept.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

func logStep(log *zap.Logger, name string, step Step) {
	log.Info("pipeline step",
		zap.String("name", name),
		zap.Int("initial", step.Initial),
		zap.Int("dropped", step.Dropped),
		zap.Int("left", step.Left),
	)
}

func (r *Result) Len() int {
	return len(r.Candidates)
}

// Headline is the line printed above the ranking.
func (r *Result) Headline() string {
	topN := r.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	if r.Total < topN {
		return "Top candidates by similarity score:"
	}
	return fmt.Sprintf("Top %d candidates by similarity score:", topN)
}

// Render formats the ranking for a terminal.
func (r *Result) Render() string {
	var b strings.Builder
	b.WriteString(r.Headline())
	b.WriteString("\n")

	for _, c := range r.Candidates {
		fmt.Fprintf(&b, "\n%d. Name: %s\n", c.Rank, c.Name)
		fmt.Fprintf(&b, "   Similarity Score: %.2f\n", c.Score)
		if c.Insight != "" {
			fmt.Fprintf(&b, "   Fit Insights: %s\n", c.Insight)
		}
	}

	return b.String()
}

// Problems lists the documents that did not yield text.
func (r *Result) Problems() []extract.Document {
	var problems []extract.Document
	for _, doc := range r.Documents {
		if !doc.OK() {
			problems = append(problems, doc)
		}
	}
	return problems
}

// ReportByStatus groups uploaded document names by extraction status.
func (r *Result) ReportByStatus() map[extract.Status][]map[string]string {
	report := make(map[extract.Status][]map[string]string)
	for _, doc := range r.Documents {
		entry := map[string]string{
			"name":   doc.Name,
			"format": string(doc.Format),
			"pages":  fmt.Sprintf("%d", doc.Pages),
		}
		if doc.Warning != "" {
			entry["warning"] = doc.Warning
		}
		if doc.Error != "" {
			entry["error"] = doc.Error
		}
		report[doc.Status] = append(report[doc.Status], entry)
	}
	return report
}

// DumpToTmpFile writes the result as indented JSON into a new temp file and
// returns its name.
func (r *Result) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}
