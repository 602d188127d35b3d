package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/resume-ranker/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDecodeRequestFileResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "request.json", `{
		"job_description": "Go developer",
		"resumes": ["cv/jane.pdf", "/abs/john.docx"],
		"pasted": "A\n---\nB",
		"top": "3"
	}`)

	req, err := decodeRequestFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Go developer", req.JobDescription)
	assert.Equal(t, []string{filepath.Join(dir, "cv/jane.pdf"), "/abs/john.docx"}, req.Resumes)
	assert.Equal(t, 3, req.Top)
	assert.Equal(t, "A\n---\nB", req.Pasted)
}

func TestDecodeRequestFileRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "request.json", `{"job": "typo"}`)

	_, err := decodeRequestFile(path)
	assert.Error(t, err)
}

func TestBuildRequestMergesFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "first.docx", "docx bytes")
	second := writeFile(t, dir, "second.pdf", "pdf bytes")
	jobFile := writeFile(t, dir, "job.txt", "Job from file")
	requestPath := writeFile(t, dir, "request.json", `{"job_description": "ignored", "resumes": ["first.docx"], "pasted": "From request", "top": 4}`)

	req, top, err := buildRequest(requestOptions{
		JobFile:     jobFile,
		Resumes:     []string{second},
		PastedFile:  "-",
		RequestFile: requestPath,
	}, strings.NewReader("Jane\n---\nJohn"))
	require.NoError(t, err)

	assert.Equal(t, 4, top)
	assert.Equal(t, "Job from file", req.JobDescription)
	assert.Equal(t, "Jane\n---\nJohn", req.Pasted)
	require.Len(t, req.Documents, 2)
	assert.Equal(t, "first.docx", req.Documents[0].Name)
	assert.Equal(t, "second.pdf", req.Documents[1].Name)
	assert.Equal(t, []byte("pdf bytes"), req.Documents[1].Data)
}

func TestBuildRequestInlineJobWins(t *testing.T) {
	dir := t.TempDir()
	jobFile := writeFile(t, dir, "job.txt", "from file")

	req, top, err := buildRequest(requestOptions{Job: "inline", JobFile: jobFile}, nil)
	require.NoError(t, err)
	assert.Equal(t, "inline", req.JobDescription)
	assert.Zero(t, top)
	assert.Empty(t, req.Documents)
}

func TestBuildRequestMissingResume(t *testing.T) {
	_, _, err := buildRequest(requestOptions{Resumes: []string{filepath.Join(t.TempDir(), "missing.pdf")}}, nil)
	assert.ErrorContains(t, err, "reading resume")
}

func TestHandleAction(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	result := &pipeline.Result{
		Total:      1,
		Candidates: []pipeline.Candidate{{Rank: 1, Name: "Jane Doe", Score: 0.5, Source: "pasted#1"}},
	}

	var out bytes.Buffer
	require.NoError(t, handleAction(PromptShow, &out, log, result))
	assert.Contains(t, out.String(), "1. Name: Jane Doe")

	require.NoError(t, handleAction(PromptDump, &out, log, result))
	dumps := observed.FilterMessage("dumping result to file").All()
	require.Len(t, dumps, 1)
	filename, _ := dumps[0].ContextMap()["filename"].(string)
	require.NotEmpty(t, filename)
	t.Cleanup(func() { os.Remove(filename) })

	assert.ErrorIs(t, handleAction(PromptExit, &out, log, result), errExit)
	assert.Error(t, handleAction("nope", &out, log, result))
}

func TestRedactedHidesAPIKey(t *testing.T) {
	cfg := &Config{AI: &AIConfig{APIKey: "secret", Model: "m"}}

	got := redacted(cfg)
	assert.Equal(t, "***", got.AI.APIKey)
	assert.Equal(t, "secret", cfg.AI.APIKey)
}
