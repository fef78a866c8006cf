package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
	"github.com/custodia-labs/tailor/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

const defaultTitle = "Untitled résumé"

// IngestService chunks, embeds and stores résumés.
type IngestService struct {
	docStore    driven.DocumentStore
	pipeline    driven.PostProcessorPipeline
	embedder    driven.EmbeddingService
	normalisers driven.NormaliserRegistry
	metrics     driven.Metrics
}

// NewIngestService creates a new ingest service.
// normalisers may be nil, in which case only text/* files are accepted.
func NewIngestService(
	docStore driven.DocumentStore,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	normalisers driven.NormaliserRegistry,
) *IngestService {
	return &IngestService{
		docStore:    docStore,
		pipeline:    pipeline,
		embedder:    embedder,
		normalisers: normalisers,
		metrics:     NopMetrics{},
	}
}

// SetMetrics sets the metrics recorder.
func (s *IngestService) SetMetrics(m driven.Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Ingest chunks, embeds and stores already-extracted text.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (result *driving.IngestResult, err error) {
	defer func() {
		chunks := 0
		if result != nil {
			chunks = result.ChunkCount
		}
		s.metrics.ObserveIngest(ResultLabel(err), chunks)
	}()

	logger.Section("Ingest")

	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: résumé text is empty", domain.ErrInvalidInput)
	}

	doc := &domain.Document{
		ID:        uuid.New().String(),
		URI:       req.URI,
		Title:     titleFor(req.Title, req.URI),
		MIMEType:  req.MIMEType,
		Content:   req.Text,
		Metadata:  req.Metadata,
		CreatedAt: time.Now().UTC(),
	}
	if doc.MIMEType == "" {
		doc.MIMEType = "text/plain"
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("ingest: chunk: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks produced", domain.ErrInvalidInput)
	}
	logger.Debug("Document %s split into %d chunks", doc.ID, len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("ingest: embed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrEmbeddingFailed, len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].DocumentID = doc.ID
		chunks[i].Embedding = vectors[i]
	}

	if err := s.docStore.SaveDocument(ctx, doc, chunks); err != nil {
		return nil, fmt.Errorf("ingest: save: %w", err)
	}

	words := domain.CountWords(doc.Content)
	logger.Info("Ingested %q as %s (%d chunks, %d words)", doc.Title, doc.ID, len(chunks), words)

	return &driving.IngestResult{
		DocumentID: doc.ID,
		ChunkCount: len(chunks),
		WordCount:  words,
	}, nil
}

// IngestFile extracts text from raw bytes, then ingests it.
func (s *IngestService) IngestFile(ctx context.Context, raw *domain.RawDocument) (*driving.IngestResult, error) {
	if raw == nil || len(raw.Content) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidInput)
	}

	mimeType := strings.ToLower(strings.TrimSpace(raw.MIMEType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	var text string
	switch {
	case s.normalisers != nil:
		res, err := s.normalisers.Normalise(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("ingest: extract %s: %w", mimeType, err)
		}
		text = res.Document.Content
		if raw.Title == "" {
			raw.Title = res.Document.Title
		}
	case strings.HasPrefix(mimeType, "text/"):
		text = string(raw.Content)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)
	}

	return s.Ingest(ctx, driving.IngestRequest{
		Text:     text,
		Title:    raw.Title,
		URI:      raw.URI,
		MIMEType: mimeType,
		Metadata: raw.Metadata,
	})
}

func titleFor(title, uri string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if uri != "" {
		base := path.Base(strings.ReplaceAll(uri, "\\", "/"))
		base = strings.TrimSuffix(base, path.Ext(base))
		if base != "" && base != "." && base != "/" {
			return base
		}
	}
	return defaultTitle
}
