package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
	"github.com/custodia-labs/tailor/internal/logger"
)

// Ensure TailorService implements the interface.
var _ driving.TailorService = (*TailorService)(nil)

// TailorDefaults holds the values used when a request leaves a field zero.
type TailorDefaults struct {
	RetrievalLimit int
	MinScore       float64
	MaxBullets     int
	Style          domain.Style
}

// TailorDefaultsFrom derives request defaults from application settings.
func TailorDefaultsFrom(s domain.AppSettings) TailorDefaults {
	return TailorDefaults{
		RetrievalLimit: s.Retrieval.Limit,
		MinScore:       s.Retrieval.MinScore,
		MaxBullets:     s.Generation.MaxBullets,
		Style:          s.Generation.Style,
	}
}

// BulletGenerator produces validated bullets from retrieved chunks.
type BulletGenerator interface {
	Generate(ctx context.Context, jobDescription string,
		retrieved []domain.ScoredChunk, opts domain.GenerateOptions) (*domain.Generation, error)
}

// TailorService runs retrieval then generation for one résumé and job description.
type TailorService struct {
	retrieval driving.RetrievalService
	generator BulletGenerator
	defaults  TailorDefaults
	metrics   driven.Metrics
}

// NewTailorService creates a new tailor service.
func NewTailorService(
	retrieval driving.RetrievalService,
	generator BulletGenerator,
	defaults TailorDefaults,
) *TailorService {
	if defaults.RetrievalLimit <= 0 {
		defaults.RetrievalLimit = domain.DefaultAppSettings().Retrieval.Limit
	}
	if defaults.MaxBullets <= 0 {
		defaults.MaxBullets = domain.DefaultBullets
	}
	if !defaults.Style.IsValid() {
		defaults.Style = domain.StyleProfessional
	}
	return &TailorService{
		retrieval: retrieval,
		generator: generator,
		defaults:  defaults,
		metrics:   NopMetrics{},
	}
}

// SetMetrics sets the metrics recorder.
func (s *TailorService) SetMetrics(m driven.Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Tailor retrieves relevant chunks and generates cited bullets.
func (s *TailorService) Tailor(ctx context.Context, req driving.TailorRequest) (result *domain.TailorResult, err error) {
	var genTime time.Duration
	defer func() {
		s.metrics.ObserveTailor(ResultLabel(err), genTime)
	}()

	req, err = s.normalise(req)
	if err != nil {
		return nil, err
	}

	retrieved, err := s.retrieval.Retrieve(ctx, req.DocumentID, req.JobDescription, domain.RetrievalOptions{
		Limit:    req.RetrievalLimit,
		MinScore: s.defaults.MinScore,
	})
	if err != nil {
		return nil, fmt.Errorf("tailor: %w", err)
	}
	if retrieved.Len() == 0 {
		if retrieved.Scored > 0 {
			return nil, fmt.Errorf("%w: no chunk of document %s reached the minimum score %.2f",
				domain.ErrNoContent, req.DocumentID, s.defaults.MinScore)
		}
		return nil, fmt.Errorf("%w: document %s has no chunks to draw from", domain.ErrNoContent, req.DocumentID)
	}

	start := time.Now()
	gen, err := s.generator.Generate(ctx, req.JobDescription, retrieved.Chunks, domain.GenerateOptions{
		MaxBullets: req.MaxBullets,
		Style:      req.Style,
	})
	genTime = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("tailor: %w", err)
	}

	logger.Info("Tailored %d bullets for document %s in %s", len(gen.Bullets), req.DocumentID, genTime.Round(time.Millisecond))

	return &domain.TailorResult{
		DocumentID:  req.DocumentID,
		Bullets:     gen.Bullets,
		CitedChunks: domain.CitedPositions(gen.Bullets),
		Retrieved:   retrieved.Chunks,
		Model:       gen.Model,
		Style:       req.Style,
		Stats:       gen.Stats,
	}, nil
}

// Preview returns the chunks Tailor would offer the generator.
func (s *TailorService) Preview(
	ctx context.Context, documentID, jobDescription string, limit int,
) (*domain.RetrievalResult, error) {
	req, err := s.normalise(driving.TailorRequest{
		DocumentID:     documentID,
		JobDescription: jobDescription,
		RetrievalLimit: limit,
	})
	if err != nil {
		return nil, err
	}
	return s.retrieval.Retrieve(ctx, req.DocumentID, req.JobDescription, domain.RetrievalOptions{
		Limit:    req.RetrievalLimit,
		MinScore: s.defaults.MinScore,
	})
}

// normalise validates a request and fills zero fields from defaults.
func (s *TailorService) normalise(req driving.TailorRequest) (driving.TailorRequest, error) {
	req.DocumentID = strings.TrimSpace(req.DocumentID)
	req.JobDescription = strings.TrimSpace(req.JobDescription)

	if req.DocumentID == "" {
		return req, fmt.Errorf("%w: resume id is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.JobDescription) < driving.MinJobDescriptionLength {
		return req, fmt.Errorf("%w: job description must be at least %d characters",
			domain.ErrInvalidInput, driving.MinJobDescriptionLength)
	}

	switch {
	case req.RetrievalLimit < 0:
		return req, fmt.Errorf("%w: retrieval limit must not be negative", domain.ErrInvalidInput)
	case req.RetrievalLimit == 0:
		req.RetrievalLimit = s.defaults.RetrievalLimit
	case req.RetrievalLimit > driving.MaxRetrievalLimit:
		req.RetrievalLimit = driving.MaxRetrievalLimit
	}

	switch {
	case req.MaxBullets < 0, req.MaxBullets > domain.MaxBullets:
		return req, fmt.Errorf("%w: max bullets must be between %d and %d",
			domain.ErrInvalidInput, domain.MinBullets, domain.MaxBullets)
	case req.MaxBullets == 0:
		req.MaxBullets = s.defaults.MaxBullets
	}

	if req.Style == "" {
		req.Style = s.defaults.Style
	}
	if !req.Style.IsValid() {
		return req, fmt.Errorf("%w: unknown style %q", domain.ErrInvalidInput, req.Style)
	}

	return req, nil
}
