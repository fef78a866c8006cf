package domain

import (
	"mime"
	"path/filepath"
	"strings"
)

// RawDocument represents opaque bytes supplied for ingestion.
// It is the input to text extraction.
type RawDocument struct {
	// URI is the original location (file path, object key, etc).
	URI string

	// Title is an optional human-readable title.
	Title string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-specific key-value pairs.
	Metadata map[string]any
}

// resumeExtensions covers résumé formats missing from some system MIME tables.
var resumeExtensions = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pdf":      "application/pdf",
}

// MIMETypeForPath guesses a content type from a file name's extension.
// Returns "" when the extension is unknown.
func MIMETypeForPath(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := resumeExtensions[ext]; ok {
		return t
	}
	if ext == "" {
		return ""
	}
	t := mime.TypeByExtension(ext)
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}
