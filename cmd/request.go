package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/resume-ranker/internal/extract"
	"github.com/spigell/resume-ranker/internal/pipeline"
)

const stdinMarker = "-"

// requestFile is the JSON form of a ranking request. Resume paths are
// resolved relative to the file itself.
type requestFile struct {
	JobDescription string   `json:"job_description"`
	JobFile        string   `json:"job_file"`
	Resumes        []string `json:"resumes"`
	Pasted         string   `json:"pasted"`
	PastedFile     string   `json:"pasted_file"`
	Top            int      `json:"top"`
}

// requestOptions collects what the rank command was given on the command line.
type requestOptions struct {
	Job         string
	JobFile     string
	Resumes     []string
	PastedFile  string
	RequestFile string
}

func decodeRequestFile(path string) (*requestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing request file %q: %w", path, err)
	}

	var req requestFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &req,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding request file %q: %w", path, err)
	}

	base := filepath.Dir(path)
	req.JobFile = resolvePath(base, req.JobFile)
	req.PastedFile = resolvePath(base, req.PastedFile)
	for i, p := range req.Resumes {
		req.Resumes[i] = resolvePath(base, p)
	}

	return &req, nil
}

// buildRequest merges the request file with flags. Flags win for scalar
// values; resume paths from both sources are kept, file entries first.
func buildRequest(opts requestOptions, stdin io.Reader) (pipeline.Request, int, error) {
	var (
		req pipeline.Request
		top int
		err error
	)

	file := &requestFile{}
	if opts.RequestFile != "" {
		if file, err = decodeRequestFile(opts.RequestFile); err != nil {
			return req, 0, err
		}
		top = file.Top
	}

	req.JobDescription = file.JobDescription
	if file.JobFile != "" {
		if req.JobDescription, err = readText(file.JobFile, stdin); err != nil {
			return req, 0, fmt.Errorf("reading job description: %w", err)
		}
	}
	if opts.JobFile != "" {
		if req.JobDescription, err = readText(opts.JobFile, stdin); err != nil {
			return req, 0, fmt.Errorf("reading job description: %w", err)
		}
	}
	if opts.Job != "" {
		req.JobDescription = opts.Job
	}

	req.Pasted = file.Pasted
	pastedFile := file.PastedFile
	if opts.PastedFile != "" {
		pastedFile = opts.PastedFile
	}
	if pastedFile != "" {
		if req.Pasted, err = readText(pastedFile, stdin); err != nil {
			return req, 0, fmt.Errorf("reading pasted resumes: %w", err)
		}
	}

	for _, path := range append(append([]string{}, file.Resumes...), opts.Resumes...) {
		data, err := os.ReadFile(path)
		if err != nil {
			return req, 0, fmt.Errorf("reading resume: %w", err)
		}
		req.Documents = append(req.Documents, extract.RawDocument{Name: filepath.Base(path), Data: data})
	}

	return req, top, nil
}

func readText(path string, stdin io.Reader) (string, error) {
	if path == stdinMarker {
		if stdin == nil {
			return "", errors.New("stdin is not available")
		}
		data, err := io.ReadAll(stdin)
		return string(data), err
	}

	data, err := os.ReadFile(path)
	return string(data), err
}

func resolvePath(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == stdinMarker || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
