package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// keywordEmbedder embeds text as keyword counts over a fixed vocabulary,
// plus a constant component so no vector is zero.
type keywordEmbedder struct {
	vocab []string
	calls atomic.Int32
	err   error
}

func newKeywordEmbedder(vocab ...string) *keywordEmbedder {
	return &keywordEmbedder{vocab: vocab}
}

func (m *keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, len(m.vocab)+1)
		words := strings.Fields(strings.ToLower(text))
		for j, term := range m.vocab {
			for _, w := range words {
				if strings.Trim(w, ".,;:") == term {
					v[j]++
				}
			}
		}
		v[len(m.vocab)] = 0.1
		out[i] = v
	}
	return out, nil
}

func (m *keywordEmbedder) Dimensions() int { return len(m.vocab) + 1 }
func (m *keywordEmbedder) ModelName() string { return "keyword-test" }
func (m *keywordEmbedder) Ping(context.Context) error { return nil }
func (m *keywordEmbedder) Close() error { return nil }

// scriptedLLM returns canned responses in order; the last one repeats.
type scriptedLLM struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	delay     time.Duration
	calls     int
	messages  []driven.ChatMessage
}

func (m *scriptedLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return m.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}}, driven.ChatOptions{})
}

func (m *scriptedLLM) Chat(ctx context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	i := m.calls
	m.calls++
	m.messages = messages
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	var err error
	if len(m.errs) > 0 {
		err = m.errs[min(i, len(m.errs)-1)]
	}
	if err != nil {
		return "", err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	return m.responses[min(i, len(m.responses)-1)], nil
}

func (m *scriptedLLM) ModelName() string { return "scripted" }
func (m *scriptedLLM) Ping(context.Context) error { return nil }
func (m *scriptedLLM) Close() error { return nil }

func (m *scriptedLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// recordingMetrics captures observations.
type recordingMetrics struct {
	mu        sync.Mutex
	ingest    []string
	tailor    []string
	retrieved []int
}

func (m *recordingMetrics) ObserveIngest(result string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingest = append(m.ingest, result)
}

func (m *recordingMetrics) ObserveRetrieval(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retrieved = append(m.retrieved, n)
}

func (m *recordingMetrics) ObserveTailor(result string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tailor = append(m.tailor, result)
}

// staticPrompts serves fixed templates.
type staticPrompts map[string]string

func (p staticPrompts) Load(name string) (string, error) {
	if s, ok := p[name]; ok {
		return s, nil
	}
	return "", domain.ErrNotFound
}

func (p staticPrompts) Reload() {}

// stubValidator records validation calls.
type stubValidator struct {
	embeddingErr error
	llmErr       error
	calls        int
}

func (v *stubValidator) ValidateEmbedding(*domain.EmbeddingSettings) error {
	v.calls++
	return v.embeddingErr
}

func (v *stubValidator) ValidateLLM(*domain.LLMSettings) error {
	v.calls++
	return v.llmErr
}

var errBoom = errors.New("boom")

// scored builds retrieved chunks with the given positions in rank order.
func scored(positions ...int) []domain.ScoredChunk {
	out := make([]domain.ScoredChunk, len(positions))
	for i, p := range positions {
		out[i] = domain.ScoredChunk{
			Chunk: domain.Chunk{ID: "c", Position: p, Content: "content"},
			Score: 1 - float64(i)*0.1,
		}
	}
	return out
}
