package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// setupTestStore connects to TAILOR_TEST_POSTGRES_DSN or skips.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TAILOR_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TAILOR_TEST_POSTGRES_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStore_RequiresDSN(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	id := uuid.New().String()

	doc := &domain.Document{ID: id, Title: "Jane", Content: "Built Go services.", CreatedAt: time.Now()}
	chunks := []domain.Chunk{
		{ID: uuid.New().String(), Content: "b", Position: 1, Embedding: []float32{0, 1}},
		{ID: uuid.New().String(), Content: "a", Position: 0, Embedding: []float32{1, 0}},
	}
	require.NoError(t, store.SaveDocument(ctx, doc, chunks))
	t.Cleanup(func() { _ = store.DeleteDocument(ctx, id) })

	got, err := store.ListVectors(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Content)
	assert.Equal(t, []float32{1, 0}, got[0].Embedding)

	count, err := store.CountChunks(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_DeleteCascades(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	id := uuid.New().String()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: id, Content: "x", CreatedAt: time.Now()},
		[]domain.Chunk{{ID: uuid.New().String(), Content: "x", Embedding: []float32{1}}}))
	require.NoError(t, store.DeleteDocument(ctx, id))

	_, err := store.GetDocument(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	count, err := store.CountChunks(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.ErrorIs(t, store.DeleteDocument(ctx, id), domain.ErrNotFound)
}
