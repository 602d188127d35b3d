package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Format is the document format derived from a file name.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatDOCX        Format = "docx"
	FormatUnsupported Format = "unsupported"
)

// Status reports how extraction of a single document went.
type Status string

const (
	StatusOK          Status = "ok"
	StatusEmpty       Status = "empty"
	StatusUnsupported Status = "unsupported"
	StatusFailed      Status = "failed"
)

const defaultWorkers = 1

// RawDocument is an uploaded file as received from the caller.
type RawDocument struct {
	Name string
	Data []byte
}

// Document is the outcome of extracting one RawDocument. Text is always set,
// possibly empty, so a broken file still occupies its slot in the batch.
type Document struct {
	Name    string `json:"name"`
	Format  Format `json:"format"`
	Status  Status `json:"status"`
	Pages   int    `json:"pages,omitempty"`
	Text    string `json:"-"`
	Warning string `json:"warning,omitempty"`
	Error   string `json:"error,omitempty"`

	Err error `json:"-"`
}

// OK reports whether the document produced usable text.
func (d Document) OK() bool {
	return d.Status == StatusOK
}

type Config struct {
	// Workers bounds how many documents are parsed at once.
	Workers int `mapstructure:"workers"`
}

type Extractor struct {
	workers int
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Extractor {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{workers: workers, logger: logger}
}

// FormatOf maps a file name to its document format by extension.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatUnsupported
	}
}

// Text returns the plain text of the document, or an empty string when the
// format is unsupported or the document cannot be parsed.
func (e *Extractor) Text(name string, data []byte) string {
	return e.Extract(context.Background(), RawDocument{Name: name, Data: data}).Text
}

// Extract never fails: parser errors and panics are folded into the returned status.
func (e *Extractor) Extract(ctx context.Context, raw RawDocument) Document {
	doc := Document{Name: raw.Name, Format: FormatOf(raw.Name)}

	if err := ctx.Err(); err != nil {
		return doc.fail(err)
	}

	var (
		text string
		err  error
	)

	switch doc.Format {
	case FormatPDF:
		text, err = e.extractPDF(raw.Data, &doc)
	case FormatDOCX:
		text, err = extractDOCX(raw.Data)
	default:
		doc.Status = StatusUnsupported
		e.logger.Debug("skipping unsupported document", zap.String("name", raw.Name))
		return doc
	}

	if err != nil {
		e.logger.Warn("document extraction failed",
			zap.String("name", raw.Name),
			zap.String("format", string(doc.Format)),
			zap.Error(err),
		)
		return doc.fail(err)
	}

	doc.Text = normalize(text)
	doc.Status = StatusOK
	if strings.TrimSpace(doc.Text) == "" {
		doc.Status = StatusEmpty
	}

	e.logger.Debug("document extracted",
		zap.String("name", raw.Name),
		zap.String("status", string(doc.Status)),
		zap.Int("pages", doc.Pages),
		zap.Int("length", len(doc.Text)),
	)

	return doc
}

// ExtractAll extracts every document, keeping the output aligned with the input.
// Only context cancellation is reported as an error.
func (e *Extractor) ExtractAll(ctx context.Context, docs []RawDocument) ([]Document, error) {
	out := make([]Document, len(docs))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)

	for i, raw := range docs {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.Extract(gctx, raw)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("extract documents: %w", err)
	}

	return out, nil
}

func (d Document) fail(err error) Document {
	d.Text = ""
	d.Status = StatusFailed
	d.Err = err
	d.Error = err.Error()
	return d
}

func normalize(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
