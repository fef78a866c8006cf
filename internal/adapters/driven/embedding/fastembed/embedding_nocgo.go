//go:build !cgo

package fastembed

import (
	"context"

	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService is a stub for builds without cgo.
type EmbeddingService struct{}

// NewEmbeddingService returns ErrUnavailable.
func NewEmbeddingService(_ Config) (*EmbeddingService, error) {
	return nil, ErrUnavailable
}

// Embed returns ErrUnavailable.
func (s *EmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, ErrUnavailable
}

// EmbedBatch returns ErrUnavailable.
func (s *EmbeddingService) EmbedBatch(_ context.Context, _ []string) ([][]float32, error) {
	return nil, ErrUnavailable
}

// Dimensions returns 0.
func (s *EmbeddingService) Dimensions() int { return 0 }

// ModelName returns an empty string.
func (s *EmbeddingService) ModelName() string { return "" }

// Ping returns ErrUnavailable.
func (s *EmbeddingService) Ping(_ context.Context) error { return ErrUnavailable }

// Close is a no-op.
func (s *EmbeddingService) Close() error { return nil }
