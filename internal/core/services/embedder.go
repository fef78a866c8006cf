package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/logger"
)

// Ensure Embedder implements the interface.
var _ driven.EmbeddingService = (*Embedder)(nil)

// DefaultEmbedBatchSize is the number of texts sent to the model per call.
const DefaultEmbedBatchSize = 32

// EmbeddingLoader constructs the underlying model. It is called at most
// once successfully per Embedder.
type EmbeddingLoader func(ctx context.Context) (driven.EmbeddingService, error)

// Embedder wraps an embedding model with lazy loading, batching and
// L2 normalisation. Every vector it returns has unit length, so cosine
// similarity between two of them is their dot product.
//
// The model is loaded on first use. Concurrent first calls wait for a
// single load; a failed load is retried by the next call.
type Embedder struct {
	load      EmbeddingLoader
	batchSize int

	mu  sync.Mutex
	svc atomic.Pointer[driven.EmbeddingService]
}

// NewEmbedder creates an embedder that loads its model on first use.
func NewEmbedder(load EmbeddingLoader, batchSize int) *Embedder {
	if batchSize <= 0 {
		batchSize = DefaultEmbedBatchSize
	}
	return &Embedder{load: load, batchSize: batchSize}
}

// NewEmbedderFrom wraps an already-constructed model.
func NewEmbedderFrom(svc driven.EmbeddingService, batchSize int) *Embedder {
	e := NewEmbedder(nil, batchSize)
	e.svc.Store(&svc)
	return e
}

// service returns the loaded model, loading it if needed.
func (e *Embedder) service(ctx context.Context) (driven.EmbeddingService, error) {
	if svc := e.svc.Load(); svc != nil {
		return *svc, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if svc := e.svc.Load(); svc != nil {
		return *svc, nil
	}
	if e.load == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Debug("Loading embedding model")
	svc, err := e.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load model: %w", domain.ErrEmbeddingUnavailable, err)
	}
	e.svc.Store(&svc)
	logger.Debug("Embedding model loaded: %s (%d dims)", svc.ModelName(), svc.Dimensions())
	return svc, nil
}

// Embed returns the unit-length embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch returns one unit-length vector per text, in input order.
// A model failure, a missing vector, or a zero vector fails the whole call.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	svc, err := e.service(ctx)
	if err != nil {
		return nil, err
	}

	out := make([][]float32, 0, len(texts))
	dims := svc.Dimensions()

	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vecs, err := svc.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("%w: model returned %d vectors for %d texts",
				domain.ErrEmbeddingFailed, len(vecs), end-start)
		}

		for i, v := range vecs {
			if dims == 0 {
				dims = len(v)
			}
			if len(v) != dims {
				return nil, fmt.Errorf("%w: text %d: got %d dimensions, want %d",
					domain.ErrEmbeddingFailed, start+i, len(v), dims)
			}
			unit, err := Normalize(v)
			if err != nil {
				return nil, fmt.Errorf("%w: text %d: %w", domain.ErrEmbeddingFailed, start+i, err)
			}
			out = append(out, unit)
		}
	}

	return out, nil
}

// Dimensions returns the model's vector size, or 0 before it is loaded.
func (e *Embedder) Dimensions() int {
	if svc := e.svc.Load(); svc != nil {
		return (*svc).Dimensions()
	}
	return 0
}

// ModelName returns the model name, or an empty string before it is loaded.
func (e *Embedder) ModelName() string {
	if svc := e.svc.Load(); svc != nil {
		return (*svc).ModelName()
	}
	return ""
}

// Ping loads the model if needed and checks it is usable.
func (e *Embedder) Ping(ctx context.Context) error {
	svc, err := e.service(ctx)
	if err != nil {
		return err
	}
	return svc.Ping(ctx)
}

// Close releases the model if it was loaded.
func (e *Embedder) Close() error {
	if svc := e.svc.Load(); svc != nil {
		return (*svc).Close()
	}
	return nil
}

// errZeroVector is returned when a vector cannot be normalised.
var errZeroVector = errors.New("zero or non-finite vector")

// Normalize returns a unit-length copy of v.
func Normalize(v []float32) ([]float32, error) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, errZeroVector
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}

// Dot returns the dot product of two equal-length vectors.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
