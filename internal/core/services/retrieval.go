package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
	"github.com/custodia-labs/tailor/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService ranks stored chunks by cosine similarity to a query.
// It scans every vector of the document, so it needs no native index.
type RetrievalService struct {
	docStore driven.DocumentStore
	embedder driven.EmbeddingService
	metrics  driven.Metrics
}

// NewRetrievalService creates a new retrieval service.
// The embedder must return unit-length vectors (see Embedder).
func NewRetrievalService(docStore driven.DocumentStore, embedder driven.EmbeddingService) *RetrievalService {
	return &RetrievalService{
		docStore: docStore,
		embedder: embedder,
		metrics:  NopMetrics{},
	}
}

// SetMetrics sets the metrics recorder.
func (s *RetrievalService) SetMetrics(m driven.Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Retrieve returns the opts.Limit chunks most similar to query.
func (s *RetrievalService) Retrieve(
	ctx context.Context, documentID, query string, opts domain.RetrievalOptions,
) (*domain.RetrievalResult, error) {
	logger.Section("Retrieval")

	documentID = strings.TrimSpace(documentID)
	query = strings.TrimSpace(query)
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}

	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	result := &domain.RetrievalResult{
		DocumentID: documentID,
		Query:      query,
		Chunks:     []domain.ScoredChunk{},
	}
	if opts.Limit <= 0 {
		logger.Debug("Limit %d, returning no chunks", opts.Limit)
		return result, nil
	}

	chunks, err := s.docStore.ListVectors(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("retrieve: list vectors: %w", err)
	}
	if len(chunks) == 0 {
		logger.Debug("Document %s has no chunks", documentID)
		s.metrics.ObserveRetrieval(0)
		return result, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve: embed query: %w", err)
	}

	scored, err := Rank(queryVec, chunks)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	result.Scored = len(scored)

	if opts.MinScore != 0 {
		kept := scored[:0]
		for _, sc := range scored {
			if sc.Score >= opts.MinScore {
				kept = append(kept, sc)
			}
		}
		scored = kept
	}
	if len(scored) > opts.Limit {
		scored = scored[:opts.Limit]
	}

	result.Chunks = scored
	if len(scored) > 0 {
		logger.Debug("Retrieved %d of %d chunks (scores %.3f..%.3f)",
			len(scored), len(chunks), scored[0].Score, scored[len(scored)-1].Score)
	}
	s.metrics.ObserveRetrieval(len(scored))

	return result, nil
}

// Rank scores every chunk against a unit-length query vector and sorts by
// descending similarity, breaking ties by ascending position.
func Rank(query []float32, chunks []domain.Chunk) ([]domain.ScoredChunk, error) {
	scored := make([]domain.ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) != len(query) {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, query has %d (re-ingest after changing models)",
				domain.ErrEmbeddingFailed, c.Position, len(c.Embedding), len(query))
		}
		scored = append(scored, domain.ScoredChunk{Chunk: c, Score: Dot(query, c.Embedding)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.Position < scored[j].Chunk.Position
	})
	return scored, nil
}
