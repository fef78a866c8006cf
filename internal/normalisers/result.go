package normalisers

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// NewResult builds the normalised document shared by every format.
// The document ID is assigned at ingestion, not here.
func NewResult(raw *domain.RawDocument, title, content, format string) *driven.NormaliseResult {
	if t := strings.TrimSpace(raw.Title); t != "" {
		title = t
	}

	metadata := make(map[string]any, len(raw.Metadata)+1)
	for k, v := range raw.Metadata {
		metadata[k] = v
	}
	metadata["format"] = format

	return &driven.NormaliseResult{
		Document: domain.Document{
			URI:       raw.URI,
			Title:     title,
			MIMEType:  BaseMIMEType(raw.MIMEType),
			Content:   content,
			Metadata:  metadata,
			CreatedAt: time.Now().UTC(),
		},
	}
}

// TitleFromURI derives a readable title from a file name:
// "/cv/jane_doe-2024.pdf" becomes "jane doe 2024".
func TitleFromURI(uri string) string {
	if uri == "" {
		return ""
	}
	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	if filename == "." || filename == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSpace(filename)
}

// FirstLine returns the first non-empty line of content shorter than
// maxLen runes, or "" if there is none.
func FirstLine(content string, maxLen int) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len([]rune(line)) > maxLen {
			continue
		}
		return line
	}
	return ""
}
