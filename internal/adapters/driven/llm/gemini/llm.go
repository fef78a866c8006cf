// Package gemini provides an LLM service adapter using the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

const roleModel = "model"

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model to use (default: gemini-2.0-flash).
	Model string

	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string
}

// LLMService generates text with Gemini models.
type LLMService struct {
	client *genai.Client
	model  string
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &LLMService{client: client, model: cfg.Model}, nil
}

// Generate produces a completion for a single user prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	messages := []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}}
	cfg := newGenerateConfig(opts.MaxTokens, opts.Temperature)
	cfg.StopSequences = opts.StopWords
	return s.generate(ctx, messages, cfg)
}

// Chat conducts a multi-turn conversation. System messages become the
// system instruction.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	return s.generate(ctx, messages, newGenerateConfig(opts.MaxTokens, opts.Temperature))
}

func newGenerateConfig(maxTokens int, temperature float64) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens) //nolint:gosec // bounded by settings validation
	}
	if temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(temperature))
	}
	return cfg
}

func (s *LLMService) generate(
	ctx context.Context,
	messages []driven.ChatMessage,
	cfg *genai.GenerateContentConfig,
) (string, error) {
	system, contents := toContents(messages)
	if len(contents) == 0 {
		return "", errors.New("gemini: no user content")
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, cfg)
	if err != nil {
		return "", wrapError(err)
	}
	return resp.Text(), nil
}

// toContents splits chat messages into a system instruction and Gemini
// contents. Assistant turns use the "model" role.
func toContents(messages []driven.ChatMessage) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case driven.RoleSystem:
			system = append(system, msg.Content)
			continue
		case driven.RoleAssistant:
			contents = append(contents, &genai.Content{Role: roleModel, Parts: []*genai.Part{{Text: msg.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: msg.Content}}})
		}
	}
	return strings.Join(system, "\n\n"), contents
}

func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code == http.StatusServiceUnavailable {
			return fmt.Errorf("gemini: %w: %s", domain.ErrRateLimited, apiErr.Message)
		}
		return fmt.Errorf("gemini error (status %d): %s", apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("gemini: %w", err)
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping looks up the configured model.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.Get(ctx, s.model, nil); err != nil {
		return wrapError(err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
