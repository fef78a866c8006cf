package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

func testChunks(docID string, n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:         docID + "-c" + string(rune('0'+i)),
			DocumentID: docID,
			Content:    "chunk",
			Position:   i,
			Embedding:  []float32{float32(i), 1},
		}
	}
	return chunks
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", Title: "Jane Doe", Content: "Built things."}
	require.NoError(t, store.SaveDocument(ctx, doc, testChunks("doc-1", 3)))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Title)

	count, err := store.CountChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestDocumentStore_SaveDocument_RequiresID(t *testing.T) {
	store := NewDocumentStore()

	err := store.SaveDocument(context.Background(), &domain.Document{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store := NewDocumentStore()

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListVectors_OrderedByPosition(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	chunks := testChunks("doc-1", 3)
	chunks[0], chunks[2] = chunks[2], chunks[0]
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1"}, chunks))

	got, err := store.ListVectors(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, c := range got {
		assert.Equal(t, i, c.Position)
		assert.Len(t, c.Embedding, 2)
	}
}

func TestDocumentStore_ListVectors_ReturnsCopies(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1"}, testChunks("doc-1", 1)))

	got, err := store.ListVectors(ctx, "doc-1")
	require.NoError(t, err)
	got[0].Embedding[0] = 99

	again, err := store.ListVectors(ctx, "doc-1")
	require.NoError(t, err)
	assert.InDelta(t, 0, again[0].Embedding[0], 1e-9)
}

func TestDocumentStore_ListVectors_Empty(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1"}, nil))

	got, err := store.ListVectors(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDocumentStore_ListDocuments_NewestFirst(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "old", CreatedAt: base}, nil))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "new", CreatedAt: base.Add(time.Hour)}, nil))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "old", docs[1].ID)
}

func TestDocumentStore_DeleteDocument_Cascades(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1"}, testChunks("doc-1", 2)))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	count, err := store.CountChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, store.DeleteDocument(ctx, "doc-1"), domain.ErrNotFound)
}
