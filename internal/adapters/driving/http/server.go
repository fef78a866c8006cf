// Package http provides the REST API for ingesting résumés and tailoring
// them to job descriptions.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
)

// Default configuration values.
const (
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 10 << 20
)

// Errors returned by NewServer.
var (
	ErrMissingPorts  = errors.New("http: ingest, document and tailor services are required")
	ErrMissingLogger = errors.New("http: logger is required")
)

// Ports holds the services the API exposes.
type Ports struct {
	Ingest   driving.IngestService
	Document driving.DocumentService
	Tailor   driving.TailorService
}

// RequestObserver records one finished request.
type RequestObserver interface {
	ObserveHTTP(method, route string, status int)
}

// Config holds HTTP server configuration.
type Config struct {
	// Addr is the listen address (default: :8080).
	Addr string

	// MaxUploadBytes caps résumé uploads (default: 10 MiB).
	MaxUploadBytes int64

	// Metrics is served at /metrics when set.
	Metrics http.Handler

	// Observer records request counts when set.
	Observer RequestObserver
}

// Server provides HTTP endpoints for tailor.
type Server struct {
	echo   *echo.Echo
	ports  *Ports
	logger *zap.Logger
	config Config
}

// NewServer creates a new HTTP server.
func NewServer(ports *Ports, logger *zap.Logger, cfg *Config) (*Server, error) {
	if ports == nil || ports.Ingest == nil || ports.Document == nil || ports.Tailor == nil {
		return nil, ErrMissingPorts
	}
	if logger == nil {
		return nil, ErrMissingLogger
	}

	config := Config{}
	if cfg != nil {
		config = *cfg
	}
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		ports:  ports,
		logger: logger,
		config: config,
	}
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLog)

	s.registerRoutes()
	return s, nil
}

// requestLog logs each request and reports it to the observer.
func (s *Server) requestLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Let the error handler write the status before it is recorded.
			c.Error(err)
		}
		status := c.Response().Status

		s.logger.Info("http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)

		if s.config.Observer != nil {
			route := c.Path()
			if route == "" {
				route = "/"
			}
			s.config.Observer.ObserveHTTP(c.Request().Method, route, status)
		}
		return nil
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	if s.config.Metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.config.Metrics))
	}

	v1 := s.echo.Group("/api/v1")
	v1.POST("/resumes", s.handleIngest)
	v1.GET("/resumes", s.handleListResumes)
	v1.GET("/resumes/:id", s.handleGetResume)
	v1.GET("/resumes/:id/stats", s.handleResumeStats)
	v1.DELETE("/resumes/:id", s.handleDeleteResume)
	v1.POST("/tailor", s.handleTailor)
	v1.GET("/tailor/:id/preview", s.handlePreview)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleIngest accepts a multipart "file" upload or a JSON text body.
func (s *Server) handleIngest(c echo.Context) error {
	ctx := c.Request().Context()
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		raw, err := s.readUpload(c)
		if err != nil {
			return err
		}
		result, err := s.ports.Ingest.IngestFile(ctx, raw)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, result)
	}

	var req IngestTextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}

	result, err := s.ports.Ingest.Ingest(ctx, driving.IngestRequest{
		Text:     req.Text,
		Title:    req.Title,
		MIMEType: "text/plain",
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

// readUpload reads the "file" form field. The MIME type comes from the
// part header, falling back to the file extension.
func (s *Server) readUpload(c echo.Context) (*domain.RawDocument, error) {
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, s.config.MaxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "file field is required")
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	mimeType := header.Header.Get(echo.HeaderContentType)
	if mimeType == "" || mimeType == echo.MIMEOctetStream {
		if byExt := domain.MIMETypeForPath(header.Filename); byExt != "" {
			mimeType = byExt
		}
	}

	return &domain.RawDocument{
		URI:      header.Filename,
		Title:    c.FormValue("title"),
		MIMEType: mimeType,
		Content:  data,
	}, nil
}

func (s *Server) handleListResumes(c echo.Context) error {
	docs, err := s.ports.Document.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := ResumeListResponse{Resumes: make([]ResumeSummary, 0, len(docs)), Count: len(docs)}
	for i := range docs {
		resp.Resumes = append(resp.Resumes, ResumeSummary{
			ID:        docs[i].ID,
			Title:     docs[i].Title,
			MIMEType:  docs[i].MIMEType,
			CreatedAt: docs[i].CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetResume(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	doc, err := s.ports.Document.Get(ctx, id)
	if err != nil {
		return err
	}
	chunks, err := s.ports.Document.Chunks(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ResumeResponse{Document: *doc, Chunks: chunks})
}

func (s *Server) handleResumeStats(c echo.Context) error {
	stats, err := s.ports.Document.Stats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleDeleteResume(c echo.Context) error {
	if err := s.ports.Document.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleTailor(c echo.Context) error {
	var req TailorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.ports.Tailor.Tailor(c.Request().Context(), driving.TailorRequest{
		DocumentID:     req.ResumeID,
		JobDescription: req.JobDescription,
		MaxBullets:     req.MaxBullets,
		Style:          req.Style,
		RetrievalLimit: req.RetrievalLimit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handlePreview(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = n
	}

	result, err := s.ports.Tailor.Preview(c.Request().Context(), c.Param("id"), c.QueryParam("jd_text"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Start starts the HTTP server. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.config.Addr))
	if err := s.echo.Start(s.config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
