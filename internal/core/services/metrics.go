package services

import (
	"errors"
	"time"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure NopMetrics implements the interface.
var _ driven.Metrics = NopMetrics{}

// NopMetrics discards all observations.
type NopMetrics struct{}

// ObserveIngest implements driven.Metrics.
func (NopMetrics) ObserveIngest(string, int) {}

// ObserveRetrieval implements driven.Metrics.
func (NopMetrics) ObserveRetrieval(int) {}

// ObserveTailor implements driven.Metrics.
func (NopMetrics) ObserveTailor(string, time.Duration) {}

// ResultLabel classifies err for metrics labels.
func ResultLabel(err error) string {
	if err == nil {
		return driven.ResultOK
	}
	if kind, ok := domain.GenerationErrorKindOf(err); ok {
		return "generation_" + string(kind)
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrNoContent):
		return "no_content"
	case errors.Is(err, domain.ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, domain.ErrEmbeddingFailed), errors.Is(err, domain.ErrEmbeddingUnavailable):
		return "embedding"
	case errors.Is(err, domain.ErrLLMUnavailable):
		return "llm_unavailable"
	default:
		return "error"
	}
}
