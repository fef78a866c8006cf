package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Stored values are copied on the way in and out.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores a document together with its chunks, replacing any
// chunks previously stored for it.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	stored := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		c.DocumentID = doc.ID
		c.Embedding = append([]float32(nil), c.Embedding...)
		stored[i] = c
	}
	sort.SliceStable(stored, func(i, j int) bool {
		return stored[i].Position < stored[j].Position
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	s.chunks[doc.ID] = stored
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// ListVectors returns a document's chunks ordered by position.
func (s *DocumentStore) ListVectors(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.chunks[documentID]
	out := make([]domain.Chunk, len(stored))
	for i, c := range stored {
		c.Embedding = append([]float32(nil), c.Embedding...)
		out[i] = c
	}
	return out, nil
}

// CountChunks returns the number of chunks stored for a document.
func (s *DocumentStore) CountChunks(_ context.Context, documentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks[documentID]), nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}
