// Package hashing provides an offline embedding service based on feature
// hashing. Words and adjacent word pairs are hashed into a fixed number of
// signed buckets, so texts sharing vocabulary get similar vectors without
// any model download.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "hashing-v1"
	DefaultDimensions = 384
)

// bigramWeight scales word pairs relative to single words.
const bigramWeight = 0.5

// EmbeddingService hashes text into vectors. It is stateless and safe for
// concurrent use.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hashing embedder with the given number of
// buckets, or DefaultDimensions when dimensions is not positive.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed returns the hashed feature vector of text. Term frequencies are
// dampened with 1+log(tf). Text without word characters is hashed by rune
// so that any non-blank input produces a non-zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	features := make(map[string]float64)
	tokens := tokenize(text)
	for i, tok := range tokens {
		features[tok]++
		if i > 0 {
			features[tokens[i-1]+" "+tok] += bigramWeight
		}
	}
	if len(tokens) == 0 {
		for _, r := range strings.TrimSpace(text) {
			if !unicode.IsSpace(r) {
				features[string(r)]++
			}
		}
	}

	vec := make([]float32, s.dimensions)
	for feature, tf := range features {
		bucket, sign := s.hash(feature)
		vec[bucket] += float32(sign * (1 + math.Log(tf)))
	}
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the number of hash buckets.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding scheme.
func (s *EmbeddingService) ModelName() string {
	return DefaultModel
}

// Ping always succeeds; there is nothing to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// hash maps a feature to a bucket and a sign. The sign keeps collisions
// from only ever adding up.
func (s *EmbeddingService) hash(feature string) (int, float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	sign := 1.0
	if sum>>63 == 1 {
		sign = -1.0
	}
	return int(sum % uint64(s.dimensions)), sign
}

// tokenize lowercases text and splits it into runs of letters and digits.
// Characters such as '+' and '#' stay inside a token so "C++" and "C#"
// remain distinct from "C".
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}
