// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - FastEmbed (in-process ONNX models such as bge-small-en-v1.5)
//   - Feature hashing (offline, no model download)
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//
// Adapters return raw model output. Normalisation to unit length is
// applied by the core embedder that wraps them.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// The result has one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
