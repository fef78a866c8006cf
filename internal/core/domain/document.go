package domain

import (
	"strings"
	"time"
)

// Document represents an ingested résumé.
// It is immutable once created and owns its chunks.
type Document struct {
	// ID is the unique identifier for the document.
	ID string `json:"id"`

	// URI is the original location (file path, object key, etc).
	URI string `json:"uri,omitempty"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// MIMEType is the content type the text was extracted from.
	MIMEType string `json:"mime_type,omitempty"`

	// Content is the full extracted text before chunking.
	Content string `json:"content,omitempty"`

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time `json:"created_at"`
}

// Chunk represents a bounded, contiguous segment of a document.
// Chunks are created during ingestion and never mutated.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// DocumentID links to the parent Document.
	DocumentID string `json:"document_id"`

	// Content is the text content of this chunk.
	Content string `json:"content"`

	// Position is the zero-based ordinal position within the document.
	// It is the stable index reported in citations.
	Position int `json:"position"`

	// Embedding is the unit-length vector representation of Content.
	Embedding []float32 `json:"-"`

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// WordCount returns the number of whitespace-separated words in the chunk.
func (c Chunk) WordCount() int {
	return CountWords(c.Content)
}

// DocumentStats summarises a stored document.
type DocumentStats struct {
	DocumentID       string    `json:"document_id"`
	Title            string    `json:"title"`
	WordCount        int       `json:"word_count"`
	ChunkCount       int       `json:"chunk_count"`
	AvgWordsPerChunk float64   `json:"avg_words_per_chunk"`
	CreatedAt        time.Time `json:"created_at"`
}

// CountWords counts whitespace-separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
