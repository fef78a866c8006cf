// Package docx provides a Normaliser for Word (.docx) résumés.
package docx

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MIMEType is the Office Open XML word-processing type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// maxTitleLen bounds the first line used as a title.
const maxTitleLen = 80

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise extracts paragraph text from word/document.xml.
// Each paragraph becomes one line; the first short line is the title.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: read docx: %v", domain.ErrInvalidInput, err)
	}
	defer doc.Close()

	content, err := extractText(doc.Editable().GetContent())
	if err != nil {
		return nil, fmt.Errorf("%w: parse docx: %v", domain.ErrInvalidInput, err)
	}

	title := normalisers.FirstLine(content, maxTitleLen)
	if title == "" {
		title = normalisers.TitleFromURI(raw.URI)
	}

	return normalisers.NewResult(raw, title, content, "docx"), nil
}

// extractText walks WordprocessingML in document order. Text runs are
// concatenated, tabs and breaks kept, and paragraphs end a line.
func extractText(documentXML string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	var b strings.Builder
	inText := false
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
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}
