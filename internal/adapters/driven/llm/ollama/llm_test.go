package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(LLMConfig{})
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
}

func TestChat(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"- Shipped X [C1]"},"done":true}`))
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "qwen2.5"})
	out, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "rules"},
		{Role: driven.RoleUser, Content: "jd"},
	}, driven.ChatOptions{MaxTokens: 300, Temperature: 0.3})
	require.NoError(t, err)

	assert.Equal(t, "- Shipped X [C1]", out)
	assert.Equal(t, "qwen2.5", got.Model)
	assert.False(t, got.Stream)
	require.NotNil(t, got.Options)
	assert.Equal(t, 300, got.Options.NumPredict)
	assert.Len(t, got.Messages, 2)
}

func TestGenerate_NoOptions(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":{"content":"hi"},"done":true}`))
	}))
	defer server.Close()

	out, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Generate(context.Background(), "hello", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
	assert.Nil(t, got.Options)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestChat_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	_, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Chat(context.Background(), nil, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	assert.NoError(t, NewLLMService(LLMConfig{BaseURL: server.URL}).Ping(context.Background()))
}
