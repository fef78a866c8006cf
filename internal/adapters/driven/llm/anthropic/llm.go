// Package anthropic provides an LLM service adapter using the Anthropic
// Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic LLM service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-3-5-sonnet-latest).
	Model string

	// Timeout is the HTTP timeout (default: 120s).
	Timeout time.Duration
}

// LLMService generates text using Claude models.
type LLMService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	System      string            `json:"system,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
	StopSeqs    []string          `json:"stop_sequences,omitempty"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new Anthropic LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Generate produces a completion for a single user prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	messages := []messagesMessage{{Role: driven.RoleUser, Content: prompt}}
	return s.send(ctx, "", messages, opts.MaxTokens, opts.Temperature, opts.StopWords)
}

// Chat conducts a multi-turn conversation. System messages are lifted
// into the request's system field, joined in order.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	var system []string
	apiMessages := make([]messagesMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == driven.RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		apiMessages = append(apiMessages, messagesMessage{Role: msg.Role, Content: msg.Content})
	}
	return s.send(ctx, strings.Join(system, "\n\n"), apiMessages, opts.MaxTokens, opts.Temperature, nil)
}

func (s *LLMService) send(
	ctx context.Context,
	system string,
	messages []messagesMessage,
	maxTokens int,
	temperature float64,
	stop []string,
) (string, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	jsonBody, err := json.Marshal(messagesRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: temperature,
		StopSeqs:    stop,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: read response: %w", err)
	}

	var msgResp messagesResponse
	decodeErr := json.Unmarshal(body, &msgResp)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if decodeErr == nil && msgResp.Error != nil {
			msg = msgResp.Error.Message
		}
		// 529 is Anthropic's "overloaded" status.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 529 {
			return "", fmt.Errorf("anthropic: %w: %s", domain.ErrRateLimited, msg)
		}
		return "", fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", decodeErr)
	}

	var text strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("anthropic: no text content returned")
	}
	return text.String(), nil
}

func (s *LLMService) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the API key against the /v1/models endpoint without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: failed to create ping request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("anthropic: API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
