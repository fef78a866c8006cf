// Package plaintext provides the fallback Normaliser for text documents.
package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const utf8BOM = "\uFEFF"

// Normaliser handles plain text documents. It also serves as the fallback
// for unknown MIME types whose content is valid UTF-8.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"application/json",
		"text/*",
		normalisers.Wildcard,
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise decodes the bytes as UTF-8 text.
// Content that is not valid UTF-8 is reported as ErrUnsupportedType.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if !utf8.Valid(raw.Content) {
		return nil, fmt.Errorf("%w: %s is not UTF-8 text", domain.ErrUnsupportedType, normalisers.BaseMIMEType(raw.MIMEType))
	}

	content := strings.TrimPrefix(string(raw.Content), utf8BOM)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	return normalisers.NewResult(raw, normalisers.TitleFromURI(raw.URI), content, "text"), nil
}
