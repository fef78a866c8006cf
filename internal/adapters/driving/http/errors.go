package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	if kind, ok := domain.GenerationErrorKindOf(err); ok {
		if kind == domain.GenerationTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, domain.ErrEmbeddingUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler writes {"error": ...} for service errors and echo errors.
// Internal details of 5xx replies are logged, not returned.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := statusFor(err)
	msg := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
		if status == http.StatusInternalServerError {
			msg = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrorResponse{Error: msg})
}
