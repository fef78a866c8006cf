//go:build cgo

package fastembed

import (
	"context"
	"fmt"
	"os"
	"sync"

	fastembed "github.com/anush008/fastembed-go"

	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// passageBatchSize is the ONNX batch size for passage embedding.
const passageBatchSize = 256

var models = map[string]fastembed.EmbeddingModel{
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-small-en":                      fastembed.BGESmallEN,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"BAAI/bge-base-en":                       fastembed.BGEBaseEN,
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
}

// EmbeddingService embeds text with a local ONNX model.
// Construction downloads the model on first use, so it is slow; callers
// load it lazily through the core embedder.
type EmbeddingService struct {
	mu        sync.RWMutex
	model     *fastembed.FlagEmbedding
	modelName string
	dimension int
}

// NewEmbeddingService loads the configured model.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	cfg = cfg.withDefaults()

	model, ok := models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("fastembed: unsupported model %q", cfg.Model)
	}
	if err := os.MkdirAll(cfg.CacheDir, 0700); err != nil {
		return nil, fmt.Errorf("fastembed: create cache dir: %w", err)
	}

	showProgress := false
	flag, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             cfg.CacheDir,
		MaxLength:            cfg.MaxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("fastembed: initialise %s: %w", cfg.Model, err)
	}

	return &EmbeddingService{
		model:     flag,
		modelName: cfg.Model,
		dimension: modelDimensions[cfg.Model],
	}, nil
}

// Embed embeds a single text as a passage, matching EmbedBatch so query
// and chunk vectors share one space.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts as passages.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.model == nil {
		return nil, fmt.Errorf("fastembed: service closed")
	}

	vecs, err := s.model.PassageEmbed(texts, passageBatchSize)
	if err != nil {
		return nil, fmt.Errorf("fastembed: %w", err)
	}
	return vecs, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimension
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.modelName
}

// Ping reports whether the model is loaded.
func (s *EmbeddingService) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.model == nil {
		return fmt.Errorf("fastembed: service closed")
	}
	return nil
}

// Close releases the ONNX session.
func (s *EmbeddingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return nil
	}
	err := s.model.Destroy()
	s.model = nil
	return err
}
