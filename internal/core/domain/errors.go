package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoContent indicates a document exists but has no chunks to work from.
	ErrNoContent = errors.New("document has no content")

	// ErrUnsupportedType indicates no text extractor handles a MIME type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingFailed indicates the embedding model could not produce a vector.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrGenerationFailed indicates the generator failed, timed out,
	// or returned text without any grounded bullet.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates a provider rejected a request for rate reasons.
	ErrRateLimited = errors.New("rate limited")
)

// GenerationErrorKind classifies a generation failure.
type GenerationErrorKind string

// Generation failure kinds.
const (
	// GenerationUnavailable means the provider call failed.
	GenerationUnavailable GenerationErrorKind = "unavailable"

	// GenerationTimeout means the provider did not answer in time.
	GenerationTimeout GenerationErrorKind = "timeout"

	// GenerationMalformed means the response held no usable bullet.
	GenerationMalformed GenerationErrorKind = "malformed"
)

// GenerationError describes why a generation request produced no bullets.
// It matches ErrGenerationFailed with errors.Is.
type GenerationError struct {
	Kind GenerationErrorKind
	Err  error
}

// NewGenerationError wraps err with kind.
func NewGenerationError(kind GenerationErrorKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation failed (%s)", e.Kind)
	}
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGenerationFailed}
	}
	return []error{ErrGenerationFailed, e.Err}
}

// IsRetryable reports whether re-invoking the generator may succeed.
func (e *GenerationError) IsRetryable() bool {
	return e.Kind == GenerationUnavailable
}

// GenerationErrorKindOf returns the kind of a GenerationError in err's chain.
func GenerationErrorKindOf(err error) (GenerationErrorKind, bool) {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return "", false
}
