package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
)

type fakeIngest struct {
	req driving.IngestRequest
	raw *domain.RawDocument
	err error
}

func (f *fakeIngest) Ingest(_ context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &driving.IngestResult{DocumentID: "doc-1", ChunkCount: 3, WordCount: 42}, nil
}

func (f *fakeIngest) IngestFile(_ context.Context, raw *domain.RawDocument) (*driving.IngestResult, error) {
	f.raw = raw
	if f.err != nil {
		return nil, f.err
	}
	return &driving.IngestResult{DocumentID: "doc-2", ChunkCount: 1}, nil
}

type fakeDocuments struct {
	docs    map[string]domain.Document
	deleted []string
}

func (f *fakeDocuments) List(context.Context) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDocuments) Get(_ context.Context, id string) (*domain.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (f *fakeDocuments) Chunks(_ context.Context, id string) ([]domain.Chunk, error) {
	if _, ok := f.docs[id]; !ok {
		return nil, domain.ErrNotFound
	}
	return []domain.Chunk{{ID: "c0", DocumentID: id, Content: "Built APIs in Go.", Position: 0}}, nil
}

func (f *fakeDocuments) Stats(_ context.Context, id string) (*domain.DocumentStats, error) {
	if _, ok := f.docs[id]; !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.DocumentStats{DocumentID: id, WordCount: 40, ChunkCount: 4, AvgWordsPerChunk: 10}, nil
}

func (f *fakeDocuments) Delete(_ context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return domain.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTailor struct {
	req          driving.TailorRequest
	previewLimit int
	err          error
}

func (f *fakeTailor) Tailor(_ context.Context, req driving.TailorRequest) (*domain.TailorResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TailorResult{
		DocumentID:  req.DocumentID,
		Bullets:     []domain.TailoredBullet{{Text: "Built Go APIs", Citations: []int{0}}},
		CitedChunks: []int{0},
		Style:       domain.StyleProfessional,
	}, nil
}

func (f *fakeTailor) Preview(_ context.Context, id, _ string, limit int) (*domain.RetrievalResult, error) {
	f.previewLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RetrievalResult{DocumentID: id}, nil
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveHTTP(method, route string, status int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, method+" "+route+" "+http.StatusText(status))
}

type testServer struct {
	*Server
	ingest    *fakeIngest
	documents *fakeDocuments
	tailor    *fakeTailor
	observer  *recordingObserver
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		ingest: &fakeIngest{},
		documents: &fakeDocuments{docs: map[string]domain.Document{
			"doc-1": {ID: "doc-1", Title: "Jane Doe", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}},
		tailor:   &fakeTailor{},
		observer: &recordingObserver{},
	}
	server, err := NewServer(&Ports{
		Ingest:   ts.ingest,
		Document: ts.documents,
		Tailor:   ts.tailor,
	}, zap.NewNop(), &Config{
		Observer: ts.observer,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("tailor_tailor_total 0\n"))
		}),
	})
	require.NoError(t, err)
	ts.Server = server
	return ts
}

func (ts *testServer) do(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) doJSON(method, path string, v any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(v)
	return ts.do(method, path, body, echo.MIMEApplicationJSON)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestNewServer(t *testing.T) {
	t.Run("requires ports", func(t *testing.T) {
		_, err := NewServer(nil, zap.NewNop(), nil)
		assert.ErrorIs(t, err, ErrMissingPorts)

		_, err = NewServer(&Ports{Ingest: &fakeIngest{}}, zap.NewNop(), nil)
		assert.ErrorIs(t, err, ErrMissingPorts)
	})

	t.Run("requires logger", func(t *testing.T) {
		ports := &Ports{Ingest: &fakeIngest{}, Document: &fakeDocuments{}, Tailor: &fakeTailor{}}
		_, err := NewServer(ports, nil, nil)
		assert.ErrorIs(t, err, ErrMissingLogger)
	})

	t.Run("uses defaults when config is nil", func(t *testing.T) {
		ports := &Ports{Ingest: &fakeIngest{}, Document: &fakeDocuments{}, Tailor: &fakeTailor{}}
		server, err := NewServer(ports, zap.NewNop(), nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultAddr, server.config.Addr)
		assert.Equal(t, int64(DefaultMaxUploadBytes), server.config.MaxUploadBytes)
	})
}

func TestHandleHealth(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestMetricsRoute(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/metrics", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tailor_tailor_total")
}

func TestHandleIngest_JSON(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.doJSON(http.MethodPost, "/api/v1/resumes", IngestTextRequest{Text: "Jane Doe. Go engineer.", Title: "Jane"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp driving.IngestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "doc-1", resp.DocumentID)
	assert.Equal(t, 3, resp.ChunkCount)
	assert.Equal(t, "Jane", ts.ingest.req.Title)
}

func TestHandleIngest_EmptyText(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.doJSON(http.MethodPost, "/api/v1/resumes", IngestTextRequest{Text: "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "text field is required", decodeError(t, rec))
}

func TestHandleIngest_Multipart(t *testing.T) {
	ts := setupTestServer(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "jane.md")
	require.NoError(t, err)
	_, _ = part.Write([]byte("# JANE DOE\n\nGo engineer."))
	require.NoError(t, w.WriteField("title", "Jane"))
	require.NoError(t, w.Close())

	rec := ts.do(http.MethodPost, "/api/v1/resumes", body.Bytes(), w.FormDataContentType())

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, ts.ingest.raw)
	assert.Equal(t, "jane.md", ts.ingest.raw.URI)
	assert.Equal(t, "Jane", ts.ingest.raw.Title)
	assert.Equal(t, "text/markdown", ts.ingest.raw.MIMEType)
	assert.Equal(t, "# JANE DOE\n\nGo engineer.", string(ts.ingest.raw.Content))
}

func TestHandleIngest_MultipartWithoutFile(t *testing.T) {
	ts := setupTestServer(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", "Jane"))
	require.NoError(t, w.Close())

	rec := ts.do(http.MethodPost, "/api/v1/resumes", body.Bytes(), w.FormDataContentType())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleIngest_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: binary", domain.ErrInvalidInput), http.StatusBadRequest},
		{domain.ErrUnsupportedType, http.StatusUnsupportedMediaType},
		{fmt.Errorf("embed: %w", domain.ErrEmbeddingFailed), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		ts := setupTestServer(t)
		ts.ingest.err = tt.err

		rec := ts.doJSON(http.MethodPost, "/api/v1/resumes", IngestTextRequest{Text: "some text"})
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
	}
}

func TestResumeRoutes(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/api/v1/resumes", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list ResumeListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "Jane Doe", list.Resumes[0].Title)

	rec = ts.do(http.MethodGet, "/api/v1/resumes/doc-1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "doc-1", got["id"])
	assert.Len(t, got["chunks"], 1)

	rec = ts.do(http.MethodGet, "/api/v1/resumes/doc-1/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.DocumentStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 4, stats.ChunkCount)

	rec = ts.do(http.MethodDelete, "/api/v1/resumes/doc-1", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"doc-1"}, ts.documents.deleted)
}

func TestResumeRoutes_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/api/v1/resumes/nope", "/api/v1/resumes/nope/stats"} {
		rec := ts.do(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
	rec := ts.do(http.MethodDelete, "/api/v1/resumes/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decodeError(t, rec))
}

func TestHandleTailor(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.doJSON(http.MethodPost, "/api/v1/tailor", TailorRequest{
		ResumeID:       "doc-1",
		JobDescription: "Senior Go engineer for APIs",
		MaxBullets:     4,
		Style:          domain.StyleImpact,
		RetrievalLimit: 10,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var result domain.TailorResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "doc-1", result.DocumentID)
	require.Len(t, result.Bullets, 1)
	assert.Equal(t, []int{0}, result.Bullets[0].Citations)

	assert.Equal(t, driving.TailorRequest{
		DocumentID:     "doc-1",
		JobDescription: "Senior Go engineer for APIs",
		MaxBullets:     4,
		Style:          domain.StyleImpact,
		RetrievalLimit: 10,
	}, ts.tailor.req)
}

func TestHandleTailor_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"no content", domain.ErrNoContent, http.StatusUnprocessableEntity},
		{"embedding", domain.ErrEmbeddingFailed, http.StatusInternalServerError},
		{"timeout", domain.NewGenerationError(domain.GenerationTimeout, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"malformed", domain.NewGenerationError(domain.GenerationMalformed, nil), http.StatusBadGateway},
		{"unavailable", domain.NewGenerationError(domain.GenerationUnavailable, errors.New("503")), http.StatusBadGateway},
		{"llm missing", domain.ErrLLMUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer(t)
			ts.tailor.err = fmt.Errorf("tailor: %w", tt.err)

			rec := ts.doJSON(http.MethodPost, "/api/v1/tailor", TailorRequest{ResumeID: "doc-1", JobDescription: "x"})
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandleTailor_InternalErrorsAreHidden(t *testing.T) {
	ts := setupTestServer(t)
	ts.tailor.err = errors.New("pq: connection refused to 10.0.0.3")

	rec := ts.doJSON(http.MethodPost, "/api/v1/tailor", TailorRequest{ResumeID: "doc-1"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rec))
}

func TestHandleTailor_BadBody(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodPost, "/api/v1/tailor", []byte(`{"resume_id":`), echo.MIMEApplicationJSON)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeError(t, rec))
}

func TestHandlePreview(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/api/v1/tailor/doc-1/preview?jd_text=Go+engineer&limit=5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, ts.tailor.previewLimit)

	rec = ts.do(http.MethodGet, "/api/v1/tailor/doc-1/preview?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestObserverRecordsRoutes(t *testing.T) {
	ts := setupTestServer(t)

	ts.do(http.MethodGet, "/health", nil, "")
	ts.do(http.MethodGet, "/api/v1/resumes/nope", nil, "")

	ts.observer.mu.Lock()
	defer ts.observer.mu.Unlock()
	assert.Equal(t, []string{
		"GET /health OK",
		"GET /api/v1/resumes/:id Not Found",
	}, ts.observer.calls)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(domain.ErrEmbeddingUnavailable))
}
