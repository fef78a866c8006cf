package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages stored résumés.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// List returns all documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	id, err := requireID(documentID)
	if err != nil {
		return nil, err
	}
	return s.docStore.GetDocument(ctx, id)
}

// Chunks returns a document's chunks ordered by position.
// Embeddings are stripped; callers only need the text.
func (s *DocumentService) Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	id, err := requireID(documentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.docStore.GetDocument(ctx, id); err != nil {
		return nil, err
	}

	chunks, err := s.docStore.ListVectors(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	for i := range chunks {
		chunks[i].Embedding = nil
	}
	return chunks, nil
}

// Stats summarises a document's size and chunking.
func (s *DocumentService) Stats(ctx context.Context, documentID string) (*domain.DocumentStats, error) {
	id, err := requireID(documentID)
	if err != nil {
		return nil, err
	}
	doc, err := s.docStore.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.docStore.CountChunks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}

	stats := &domain.DocumentStats{
		DocumentID: doc.ID,
		Title:      doc.Title,
		WordCount:  domain.CountWords(doc.Content),
		ChunkCount: count,
		CreatedAt:  doc.CreatedAt,
	}
	if count > 0 {
		stats.AvgWordsPerChunk = float64(stats.WordCount) / float64(count)
	}
	return stats, nil
}

// Delete removes a document and its chunks.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	id, err := requireID(documentID)
	if err != nil {
		return err
	}
	return s.docStore.DeleteDocument(ctx, id)
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	return id, nil
}
