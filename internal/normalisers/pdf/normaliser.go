// Package pdf provides a Normaliser for PDF résumés using a pure-Go reader.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// maxTitleLen bounds the first line used as a title.
const maxTitleLen = 200

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the plain text of every page in order.
// Scanned PDFs without a text layer yield empty content, which ingestion
// rejects as having no chunks.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content, err := extractText(ctx, raw.Content)
	if err != nil {
		return nil, err
	}

	title := normalisers.FirstLine(content, maxTitleLen)
	if title == "" {
		title = normalisers.TitleFromURI(raw.URI)
	}

	return normalisers.NewResult(raw, title, content, "pdf"), nil
}

// extractText reads page text. The reader panics on some malformed
// streams, so panics are reported as invalid input.
func extractText(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed pdf: %v", domain.ErrInvalidInput, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", domain.ErrInvalidInput, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", domain.ErrInvalidInput, i, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimSpace(pageText))
	}
	return strings.TrimSpace(b.String()), nil
}
