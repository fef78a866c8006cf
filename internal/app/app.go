// Package app wires tailor's adapters and services together.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/tailor/internal/adapters/driven/ai"
	"github.com/custodia-labs/tailor/internal/adapters/driven/config/file"
	"github.com/custodia-labs/tailor/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/tailor/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tailor/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/tailor/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/core/services"
	"github.com/custodia-labs/tailor/internal/logger"
	"github.com/custodia-labs/tailor/internal/normalisers"
	"github.com/custodia-labs/tailor/internal/normalisers/docx"
	"github.com/custodia-labs/tailor/internal/normalisers/html"
	"github.com/custodia-labs/tailor/internal/normalisers/markdown"
	"github.com/custodia-labs/tailor/internal/normalisers/pdf"
	"github.com/custodia-labs/tailor/internal/normalisers/plaintext"
	"github.com/custodia-labs/tailor/internal/postprocessors"
)

// Options controls where the application keeps its files.
type Options struct {
	// Dir holds config.toml, prompts/ and data/. Defaults to ~/.tailor.
	Dir string

	// DotEnv lists .env files loaded before reading settings.
	DotEnv []string

	// ConfigStore replaces the file-backed config store; used in tests.
	ConfigStore driven.ConfigStore
}

// App holds the constructed services.
type App struct {
	Settings        *domain.AppSettings
	SettingsService *services.SettingsService
	Ingest          *services.IngestService
	Documents       *services.DocumentService
	Retrieval       *services.RetrievalService
	Tailor          *services.TailorService
	Metrics         *prometheus.Metrics

	// Warnings lists non-fatal problems found while starting.
	Warnings []string

	closers []func() error
}

// New loads settings and builds every service.
func New(ctx context.Context, opts Options) (*App, error) {
	dir := opts.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".tailor")
	}

	configStore := opts.ConfigStore
	if configStore == nil {
		store, err := file.NewConfigStore(dir,
			file.WithDotEnv(opts.DotEnv...),
			file.WithEnv(file.DefaultEnvPrefix),
		)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		configStore = store
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	a := &App{
		Settings:        settings,
		SettingsService: settingsService,
		Metrics:         prometheus.New(),
	}

	docStore, closeStore, err := OpenStore(ctx, settings.Storage, filepath.Join(dir, "data"))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	pipeline, err := postprocessors.BuildPipeline(newProcessorRegistry(), domain.PipelineConfigFor(settings.Chunking))
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	embedder := services.NewEmbedder(ai.NewEmbeddingLoader(settings.Embedding), settings.Embedding.BatchSize)
	a.closers = append(a.closers, embedder.Close)

	a.Ingest = services.NewIngestService(docStore, pipeline, embedder, NewNormaliserRegistry())
	a.Ingest.SetMetrics(a.Metrics)

	a.Documents = services.NewDocumentService(docStore)

	a.Retrieval = services.NewRetrievalService(docStore, embedder)
	a.Retrieval.SetMetrics(a.Metrics)

	llm, err := newLLM(ctx, settings.LLM)
	if err != nil {
		a.Warnings = append(a.Warnings, err.Error())
	}
	if llm != nil {
		a.closers = append(a.closers, llm.Close)
	}

	generator := services.NewGenerator(llm, services.GeneratorConfig{
		Temperature:       settings.Generation.Temperature,
		MaxTokens:         settings.Generation.MaxTokens,
		Timeout:           settings.Generation.Timeout,
		Retries:           settings.Generation.Retries,
		RequestsPerSecond: settings.Generation.RequestsPerSecond,
	})
	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"), services.DefaultPrompts())
	if err != nil {
		a.Warnings = append(a.Warnings, err.Error())
	} else {
		generator.SetPromptStore(prompts)
	}

	a.Tailor = services.NewTailorService(a.Retrieval, generator, services.TailorDefaultsFrom(*settings))
	a.Tailor.SetMetrics(a.Metrics)

	for _, w := range a.Warnings {
		logger.Warn("%s", w)
	}
	return a, nil
}

// Close releases stores and provider connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OpenStore opens the document store selected by settings. dataDir is used
// for the default SQLite file.
func OpenStore(
	ctx context.Context,
	settings domain.StorageSettings,
	dataDir string,
) (driven.DocumentStore, func() error, error) {
	switch settings.Driver {
	case domain.StorageMemory:
		return memory.NewDocumentStore(), func() error { return nil }, nil

	case domain.StoragePostgres:
		if settings.DSN == "" {
			return nil, nil, fmt.Errorf("%w: storage.dsn is required for postgres", domain.ErrInvalidInput)
		}
		store, err := postgres.NewStore(ctx, settings.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, store.Close, nil

	case domain.StorageSQLite, "":
		path := settings.DSN
		if path == "" {
			path = filepath.Join(dataDir, "tailor.db")
		}
		store, err := sqlite.NewStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown storage driver %q", domain.ErrInvalidInput, settings.Driver)
	}
}

// NewNormaliserRegistry returns a registry holding every text extractor.
func NewNormaliserRegistry() *normalisers.Registry {
	return normalisers.NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
		pdf.New(),
	)
}

func newProcessorRegistry() *postprocessors.Registry {
	r := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(r)
	return r
}

// newLLM returns nil without error when no LLM is configured.
func newLLM(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	resolved := ai.ResolveLLMSettings(settings)
	if resolved.Provider == "" {
		return nil, nil
	}
	if !resolved.IsConfigured() {
		return nil, fmt.Errorf("llm provider %s is not configured", resolved.Provider)
	}
	llm, err := ai.CreateLLMService(ctx, &resolved)
	if err != nil {
		return nil, fmt.Errorf("create llm: %w", err)
	}
	return llm, nil
}
