package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tailor/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tailor/internal/core/domain"
)

func seedDocument(t *testing.T, store *memory.DocumentStore, e *Embedder, id string, texts ...string) {
	t.Helper()
	ctx := context.Background()

	vecs, err := e.EmbedBatch(ctx, texts)
	require.NoError(t, err)

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{ID: id + "-" + text, DocumentID: id, Content: text, Position: i, Embedding: vecs[i]}
	}
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: id, Title: id}, chunks))
}

func newRetrievalFixture(t *testing.T) (*RetrievalService, *memory.DocumentStore) {
	t.Helper()
	store := memory.NewDocumentStore()
	e := NewEmbedderFrom(newKeywordEmbedder("go", "python", "sales"), 0)
	seedDocument(t, store, e, "doc-1",
		"go services",
		"python scripts",
		"sales growth",
		"go go tooling",
	)
	return NewRetrievalService(store, e), store
}

func positions(chunks []domain.ScoredChunk) []int {
	out := make([]int, len(chunks))
	for i, c := range chunks {
		out[i] = c.Chunk.Position
	}
	return out
}

func TestRetrievalService_RanksBySimilarityThenPosition(t *testing.T) {
	svc, _ := newRetrievalFixture(t)

	result, err := svc.Retrieve(context.Background(), "doc-1", "go", domain.RetrievalOptions{Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 3, 1, 2}, positions(result.Chunks))
	assert.Equal(t, "doc-1", result.DocumentID)
	assert.Equal(t, "go", result.Query)
	for i := 1; i < len(result.Chunks); i++ {
		assert.GreaterOrEqual(t, result.Chunks[i-1].Score, result.Chunks[i].Score)
	}
}

func TestRetrievalService_LimitTruncates(t *testing.T) {
	svc, _ := newRetrievalFixture(t)

	result, err := svc.Retrieve(context.Background(), "doc-1", "go", domain.RetrievalOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, result.Positions())
}

func TestRetrievalService_LimitZeroReturnsEmpty(t *testing.T) {
	svc, _ := newRetrievalFixture(t)

	result, err := svc.Retrieve(context.Background(), "doc-1", "go", domain.RetrievalOptions{})
	require.NoError(t, err)
	assert.Zero(t, result.Len())
}

func TestRetrievalService_MinScore(t *testing.T) {
	svc, _ := newRetrievalFixture(t)

	result, err := svc.Retrieve(context.Background(), "doc-1", "go", domain.RetrievalOptions{Limit: 10, MinScore: 0.5})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, result.Positions())
	assert.Equal(t, 4, result.Scored)
}

func TestRetrievalService_EmptyDocument(t *testing.T) {
	svc, store := newRetrievalFixture(t)
	require.NoError(t, store.SaveDocument(context.Background(), &domain.Document{ID: "empty"}, nil))

	result, err := svc.Retrieve(context.Background(), "empty", "go", domain.RetrievalOptions{Limit: 5})
	require.NoError(t, err)
	assert.Zero(t, result.Len())
	assert.Zero(t, result.Scored)
}

func TestRetrievalService_Errors(t *testing.T) {
	svc, _ := newRetrievalFixture(t)
	ctx := context.Background()
	opts := domain.RetrievalOptions{Limit: 5}

	_, err := svc.Retrieve(ctx, "missing", "go", opts)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Retrieve(ctx, "", "go", opts)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Retrieve(ctx, "doc-1", "   ", opts)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetrievalService_RecordsMetrics(t *testing.T) {
	svc, _ := newRetrievalFixture(t)
	m := &recordingMetrics{}
	svc.SetMetrics(m)

	_, err := svc.Retrieve(context.Background(), "doc-1", "go", domain.RetrievalOptions{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, m.retrieved)
}

func TestRank_TiesBreakByPosition(t *testing.T) {
	v := []float32{1, 0}
	chunks := []domain.Chunk{
		{Position: 2, Embedding: v},
		{Position: 0, Embedding: v},
		{Position: 1, Embedding: []float32{0, 1}},
		{Position: 3, Embedding: v},
	}

	ranked, err := Rank(v, chunks)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3, 1}, positions(ranked))
}

func TestRank_DimensionMismatch(t *testing.T) {
	_, err := Rank([]float32{1, 0}, []domain.Chunk{{Embedding: []float32{1, 0, 0}}})
	assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
}
