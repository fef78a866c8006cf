package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "tailor.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testDocument(id string, created time.Time) *domain.Document {
	return &domain.Document{
		ID:        id,
		URI:       "uploads/" + id + ".txt",
		Title:     "Résumé " + id,
		MIMEType:  "text/plain",
		Content:   "Built Go services. Led a team.",
		Metadata:  map[string]any{"source": "test"},
		CreatedAt: created,
	}
}

func testChunks(docID string, n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:         docID + "-" + string(rune('a'+i)),
			DocumentID: docID,
			Content:    "chunk " + string(rune('a'+i)),
			Position:   i,
			Embedding:  []float32{float32(i) + 0.5, -1.25, 3},
			Metadata:   map[string]any{"word_count": 2},
		}
	}
	return chunks
}

func TestNewStore_AppliesMigrations(t *testing.T) {
	store := setupTestStore(t)

	v, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, "tailor.db", filepath.Base(store.Path()))
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tailor.db")
	ctx := context.Background()

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", time.Now()), testChunks("doc-1", 2)))
	require.NoError(t, store.Close())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.CountChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewStore_InMemory(t *testing.T) {
	store, err := NewStore(MemoryPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveDocument(context.Background(), testDocument("doc-1", time.Now()), nil))
	_, err = store.GetDocument(context.Background(), "doc-1")
	assert.NoError(t, err)
}

func TestStore_SaveAndGetDocument(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", created), testChunks("doc-1", 3)))

	doc, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Résumé doc-1", doc.Title)
	assert.Equal(t, "text/plain", doc.MIMEType)
	assert.Equal(t, "test", doc.Metadata["source"])
	assert.True(t, created.Equal(doc.CreatedAt))
}

func TestStore_GetDocument_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveDocument_RequiresID(t *testing.T) {
	store := setupTestStore(t)

	err := store.SaveDocument(context.Background(), &domain.Document{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_ListVectors_RoundTripsEmbeddings(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	chunks := testChunks("doc-1", 3)
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", time.Now()), chunks))

	got, err := store.ListVectors(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, c := range got {
		assert.Equal(t, i, c.Position)
		assert.Equal(t, chunks[i].Content, c.Content)
		assert.Equal(t, chunks[i].Embedding, c.Embedding)
		assert.InDelta(t, 2, c.Metadata["word_count"], 1e-9)
	}
}

func TestStore_ListVectors_EmptyDocument(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", time.Now()), nil))

	got, err := store.ListVectors(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_SaveDocument_ReplacesChunks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := testDocument("doc-1", time.Now())

	require.NoError(t, store.SaveDocument(ctx, doc, testChunks("doc-1", 3)))
	require.NoError(t, store.SaveDocument(ctx, doc, testChunks("doc-1", 1)))

	count, err := store.CountChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_SaveDocument_IsAtomic(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	chunks := testChunks("doc-1", 2)
	chunks[1].Position = chunks[0].Position // violates UNIQUE (document_id, position)

	err := store.SaveDocument(ctx, testDocument("doc-1", time.Now()), chunks)
	require.Error(t, err)

	_, err = store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListDocuments_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveDocument(ctx, testDocument("old", base), nil))
	require.NoError(t, store.SaveDocument(ctx, testDocument("new", base.Add(time.Hour)), nil))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "old", docs[1].ID)
}

func TestStore_DeleteDocument(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", time.Now()), testChunks("doc-1", 2)))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	count, err := store.CountChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, store.DeleteDocument(ctx, "doc-1"), domain.ErrNotFound)
}

func TestFloat32Conversion(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 1e-7}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
