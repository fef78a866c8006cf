package mcp

import (
	"context"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
)

type mockTailorService struct {
	result  *domain.TailorResult
	preview *domain.RetrievalResult
	err     error

	lastRequest driving.TailorRequest
	lastLimit   int
}

func (m *mockTailorService) Tailor(_ context.Context, req driving.TailorRequest) (*domain.TailorResult, error) {
	m.lastRequest = req
	return m.result, m.err
}

func (m *mockTailorService) Preview(_ context.Context, _, _ string, limit int) (*domain.RetrievalResult, error) {
	m.lastLimit = limit
	return m.preview, m.err
}

type mockIngestService struct {
	result *driving.IngestResult
	err    error

	lastRequest driving.IngestRequest
}

func (m *mockIngestService) Ingest(_ context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	m.lastRequest = req
	return m.result, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, _ *domain.RawDocument) (*driving.IngestResult, error) {
	return m.result, m.err
}

type mockDocumentService struct {
	docs   []domain.Document
	chunks []domain.Chunk
	err    error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.docs[0], nil
}

func (m *mockDocumentService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) Stats(_ context.Context, _ string) (*domain.DocumentStats, error) {
	return nil, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}
