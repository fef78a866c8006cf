package s3blob

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := New(context.Background(), domain.BlobSettings{
		Bucket:          "resumes",
		Endpoint:        server.URL,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})
	require.NoError(t, err)
	return store
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), domain.BlobSettings{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestR2Endpoint(t *testing.T) {
	assert.Equal(t, "https://abc.r2.cloudflarestorage.com", R2Endpoint("abc"))
}

func TestGet(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/resumes/uploads/jane.md", r.URL.Path)
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = w.Write([]byte("# JANE DOE"))
	})

	data, contentType, err := store.Get(context.Background(), "uploads/jane.md")
	require.NoError(t, err)
	assert.Equal(t, "# JANE DOE", string(data))
	assert.Equal(t, "text/markdown", contentType)
}

func TestGet_NotFound(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
			`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
	})

	_, _, err := store.Get(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_EmptyKey(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
