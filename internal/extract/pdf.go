package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// extractPDF concatenates the plain text of every page in order. Pages without
// text are skipped. The page count comes from pdfcpu, which is more tolerant
// of damaged cross-reference tables than the text reader.
func (e *Extractor) extractPDF(data []byte, doc *Document) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	if pages, err := pageCount(data); err != nil {
		doc.Warning = fmt.Sprintf("page count: %v", err)
	} else {
		doc.Pages = pages
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	total := reader.NumPage()
	if doc.Pages == 0 {
		doc.Pages = total
	}

	var (
		builder strings.Builder
		skipped []int
	)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Debug("skipping unreadable pdf page",
				zap.String("name", doc.Name),
				zap.Int("page", i),
				zap.Error(err),
			)
			skipped = append(skipped, i)
			continue
		}
		builder.WriteString(pageText)
	}

	if len(skipped) > 0 {
		doc.Warning = joinWarnings(doc.Warning, fmt.Sprintf("unreadable pages: %v", skipped))
	}

	return builder.String(), nil
}

func pageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return api.PageCount(bytes.NewReader(data), conf)
}

func joinWarnings(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
