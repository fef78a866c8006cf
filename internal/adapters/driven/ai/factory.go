// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/tailor/internal/adapters/driven/embedding/fastembed"
	"github.com/custodia-labs/tailor/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/tailor/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/tailor/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/tailor/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/tailor/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/tailor/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/tailor/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// providerKeyEnv names the conventional API key variable of each cloud provider.
var providerKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
	domain.AIProviderGemini:    "GOOGLE_API_KEY",
}

// lookupEnv is replaced in tests.
var lookupEnv = os.LookupEnv

// errNotConfigured is returned by loaders whose provider is not set up.
var errNotConfigured = errors.New("provider not configured")

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues found while connecting.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		_ = r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		_ = r.LLMService.Close()
	}
}

// APIKeyFromEnv returns the conventional environment key for a provider.
func APIKeyFromEnv(provider domain.AIProvider) string {
	name, ok := providerKeyEnv[provider]
	if !ok {
		return ""
	}
	v, _ := lookupEnv(name)
	return v
}

// ResolveEmbeddingSettings fills a missing API key from the environment.
func ResolveEmbeddingSettings(settings domain.EmbeddingSettings) domain.EmbeddingSettings {
	if settings.APIKey == "" {
		settings.APIKey = APIKeyFromEnv(settings.Provider)
	}
	return settings
}

// ResolveLLMSettings fills a missing API key from the environment.
func ResolveLLMSettings(settings domain.LLMSettings) domain.LLMSettings {
	if settings.APIKey == "" {
		settings.APIKey = APIKeyFromEnv(settings.Provider)
	}
	return settings
}

// Initialise creates both services. Failures become warnings so commands
// that need only one of them keep working.
func Initialise(ctx context.Context, settings *domain.AppSettings) *InitResult {
	result := &InitResult{}
	if settings == nil {
		return result
	}

	embedding, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.EmbeddingService = embedding

	llm, err := CreateAndValidateLLMService(ctx, &settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.LLMService = llm

	return result
}

// NewEmbeddingLoader returns a loader for services.NewEmbedder. The service
// is created and pinged on first use.
func NewEmbeddingLoader(settings domain.EmbeddingSettings) func(ctx context.Context) (driven.EmbeddingService, error) {
	return func(ctx context.Context) (driven.EmbeddingService, error) {
		svc, err := CreateAndValidateEmbeddingService(ctx, &settings)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrEmbeddingUnavailable, settings.Provider, errNotConfigured)
		}
		return svc, nil
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(
	ctx context.Context,
	settings *domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'tailor settings set embedding.provider ...' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'tailor settings set llm.provider ...' to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider == domain.AIProviderAnthropic || settings.Provider == domain.AIProviderGemini {
		return nil, fmt.Errorf("%s does not support embeddings, use hashing, fastembed, ollama or openai",
			settings.Provider)
	}

	resolved := ResolveEmbeddingSettings(*settings)
	if !resolved.IsConfigured() {
		return nil, nil
	}

	switch resolved.Provider {
	case domain.AIProviderHashing:
		return hashing.NewEmbeddingService(resolved.Dimensions), nil

	case domain.AIProviderFastEmbed:
		return createFastEmbed(&resolved)

	case domain.AIProviderOllama:
		return createOllamaEmbedding(&resolved), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(&resolved)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", resolved.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, nil
	}
	resolved := ResolveLLMSettings(*settings)
	if !resolved.IsConfigured() {
		return nil, nil
	}

	switch resolved.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(&resolved), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(&resolved)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(&resolved)

	case domain.AIProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey:  resolved.APIKey,
			BaseURL: resolved.BaseURL,
			Model:   resolved.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", resolved.Provider)
	}
}

// createFastEmbed creates an in-process ONNX embedding service.
func createFastEmbed(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings.Model != "" {
		if _, ok := fastembed.Dimensions(settings.Model); !ok {
			return nil, fmt.Errorf("fastembed: unsupported model %q", settings.Model)
		}
	}
	return fastembed.NewEmbeddingService(fastembed.Config{
		Model:    settings.Model,
		CacheDir: settings.CacheDir,
	})
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
