// Package chunker splits résumé text into section- and sentence-bounded chunks.
package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// DefaultMaxWords is the default upper bound on words per chunk.
const DefaultMaxWords = 200

// DefaultMinWords is the default lower bound on words per chunk.
const DefaultMinWords = 10

// Processor splits document content into chunks.
// It implements the PostProcessor interface.
type Processor struct {
	maxWords int
	minWords int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxWords sets the maximum words per chunk.
func WithMaxWords(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxWords = n
		}
	}
}

// WithMinWords sets the minimum words per chunk.
func WithMinWords(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minWords = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxWords: DefaultMaxWords,
		minWords: DefaultMinWords,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.minWords > p.maxWords {
		p.minWords = p.maxWords
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	texts, err := Split(doc.Content, p.maxWords, p.minWords)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    text,
			Position:   i,
			Metadata:   map[string]any{"word_count": domain.CountWords(text)},
		}
	}

	return chunks, nil
}
