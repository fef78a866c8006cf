package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tailor/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
)

const testResume = `# Jane Doe

Senior backend engineer with eight years of experience building distributed systems in Go and Python for payments companies.

## Experience

Led the migration of a monolithic billing platform to Go microservices on Kubernetes, cutting deploy time from hours to minutes.

Designed a Postgres partitioning scheme for ledger tables that kept query latency under fifty milliseconds at ten times the traffic.

## Skills

Go, Python, Kubernetes, Postgres, RabbitMQ, Prometheus, Terraform and continuous delivery pipelines with GitHub Actions.`

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set("storage.driver", "memory"))

	a, err := New(context.Background(), Options{
		Dir:         t.TempDir(),
		ConfigStore: cfg,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_DefaultsWorkOffline(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, domain.AIProviderHashing, a.Settings.Embedding.Provider)
	assert.Equal(t, domain.StorageMemory, a.Settings.Storage.Driver)
	assert.Empty(t, a.Warnings)
	assert.NotNil(t, a.Metrics)
}

func TestApp_IngestThenPreview(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	res, err := a.Ingest.Ingest(ctx, driving.IngestRequest{
		Text:     testResume,
		Title:    "Jane Doe",
		MIMEType: "text/markdown",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.DocumentID)
	assert.Positive(t, res.ChunkCount)

	docs, err := a.Documents.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Jane Doe", docs[0].Title)

	preview, err := a.Tailor.Preview(ctx, res.DocumentID, "Go engineer with Kubernetes and Postgres", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, preview.Chunks)
	assert.LessOrEqual(t, len(preview.Chunks), 3)
}

func TestApp_TailorWithoutLLM(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	res, err := a.Ingest.Ingest(ctx, driving.IngestRequest{Text: testResume})
	require.NoError(t, err)

	_, err = a.Tailor.Tailor(ctx, driving.TailorRequest{
		DocumentID:     res.DocumentID,
		JobDescription: "Backend engineer for a payments platform",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestApp_UnconfiguredLLMIsAWarning(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set("storage.driver", "memory"))
	require.NoError(t, cfg.Set("llm.provider", "anthropic"))

	t.Setenv("ANTHROPIC_API_KEY", "")

	a, err := New(context.Background(), Options{Dir: t.TempDir(), ConfigStore: cfg})
	require.NoError(t, err)
	defer a.Close()

	require.Len(t, a.Warnings, 1)
	assert.Contains(t, a.Warnings[0], "anthropic")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, closeFn, err := OpenStore(ctx, domain.StorageSettings{Driver: domain.StorageMemory}, "")
		require.NoError(t, err)
		assert.NotNil(t, store)
		assert.NoError(t, closeFn())
	})

	t.Run("sqlite under data dir", func(t *testing.T) {
		dir := t.TempDir()
		store, closeFn, err := OpenStore(ctx, domain.StorageSettings{Driver: domain.StorageSQLite}, dir)
		require.NoError(t, err)
		defer closeFn()

		docs, err := store.ListDocuments(ctx)
		require.NoError(t, err)
		assert.Empty(t, docs)
		assert.FileExists(t, filepath.Join(dir, "tailor.db"))
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		_, _, err := OpenStore(ctx, domain.StorageSettings{Driver: domain.StoragePostgres}, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, _, err := OpenStore(ctx, domain.StorageSettings{Driver: "mongo"}, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestNewNormaliserRegistry(t *testing.T) {
	types := NewNormaliserRegistry().SupportedMIMETypes()
	assert.Contains(t, types, "text/plain")
	assert.Contains(t, types, "text/markdown")
	assert.Contains(t, types, "application/pdf")
}
