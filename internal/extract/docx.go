package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	text, err := bodyText(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("parse docx body: %w", err)
	}

	return text, nil
}

// bodyText flattens WordprocessingML into plain text with one line per
// paragraph. Tabs and breaks inside runs are kept.
func bodyText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		builder strings.Builder
		inRun   bool
		inText  bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				inRun = true
			case "t":
				inText = inRun
			case "tab":
				if inRun {
					builder.WriteByte('\t')
				}
			case "br", "cr":
				if inRun {
					builder.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				builder.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				builder.Write(t)
			}
		}
	}

	return strings.TrimSpace(builder.String()), nil
}
