package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/logger"
)

// Ensure Generator accepts custom prompts.
var _ driven.PromptStoreAware = (*Generator)(nil)

// Default generator configuration values.
const (
	DefaultGenerationTimeout = 60 * time.Second
	DefaultGenerationTokens  = 1000
	DefaultRetryBackoff      = 500 * time.Millisecond
)

// GeneratorConfig configures the generator.
type GeneratorConfig struct {
	// Temperature is the sampling temperature passed to the LLM.
	Temperature float64

	// MaxTokens bounds the generated output.
	MaxTokens int

	// Timeout bounds a single LLM call. Zero selects the default.
	Timeout time.Duration

	// Retries is the number of extra attempts after an unavailable error.
	Retries int

	// RetryBackoff is multiplied by the attempt number between retries.
	RetryBackoff time.Duration

	// RequestsPerSecond throttles LLM calls. Zero disables throttling.
	RequestsPerSecond float64
}

// Generator asks the LLM for bullets grounded in retrieved chunks and
// validates its answer: unknown citations are dropped, repeated citations
// and bullets are removed, and bullets left without a citation are
// discarded. It never returns a partial answer on failure.
type Generator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	limiter *rate.Limiter
	cfg     GeneratorConfig
}

// NewGenerator creates a generator. llm may be nil, in which case every
// call fails with domain.ErrLLMUnavailable.
func NewGenerator(llm driven.LLMService, cfg GeneratorConfig) *Generator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultGenerationTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultGenerationTokens
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}

	g := &Generator{llm: llm, cfg: cfg}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return g
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (g *Generator) SetPromptStore(store driven.PromptStore) {
	g.prompts = store
}

// ModelName returns the LLM model name, or an empty string without an LLM.
func (g *Generator) ModelName() string {
	if g.llm == nil {
		return ""
	}
	return g.llm.ModelName()
}

// Generate produces cited bullets for jobDescription from the retrieved
// chunks. Errors are *domain.GenerationError except for invalid input.
func (g *Generator) Generate(
	ctx context.Context,
	jobDescription string,
	retrieved []domain.ScoredChunk,
	opts domain.GenerateOptions,
) (*domain.Generation, error) {
	logger.Section("Generation")

	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("%w: job description is empty", domain.ErrInvalidInput)
	}
	if len(retrieved) == 0 {
		return nil, fmt.Errorf("%w: no chunks to cite", domain.ErrInvalidInput)
	}
	if g.llm == nil {
		return nil, domain.NewGenerationError(domain.GenerationUnavailable, domain.ErrLLMUnavailable)
	}
	opts = normaliseGenerateOptions(opts)

	messages := BuildMessages(g.prompts, jobDescription, retrieved, opts)
	raw, err := g.callWithRetry(ctx, messages)
	if err != nil {
		return nil, err
	}
	logger.Debug("Generator returned %d bytes", len(raw))

	stats := domain.GenerationStats{Retrieved: len(retrieved)}
	cands := parseBullets(raw)
	stats.Generated = len(cands)

	bullets := validateBullets(cands, retrieved, &stats)
	if len(bullets) > opts.MaxBullets {
		stats.Truncated = len(bullets) - opts.MaxBullets
		bullets = bullets[:opts.MaxBullets]
	}
	stats.Kept = len(bullets)

	logger.Debug("Bullets: generated=%d kept=%d duplicates=%d ungrounded=%d dropped_citations=%d",
		stats.Generated, stats.Kept, stats.Duplicates, stats.Ungrounded, stats.DroppedCitations)

	if len(bullets) == 0 {
		return nil, domain.NewGenerationError(domain.GenerationMalformed,
			fmt.Errorf("no grounded bullets in %d parsed lines", stats.Generated))
	}

	return &domain.Generation{
		Bullets: bullets,
		Model:   g.llm.ModelName(),
		Stats:   stats,
	}, nil
}

func normaliseGenerateOptions(opts domain.GenerateOptions) domain.GenerateOptions {
	if opts.MaxBullets <= 0 {
		opts.MaxBullets = domain.DefaultBullets
	}
	if opts.MaxBullets > domain.MaxBullets {
		opts.MaxBullets = domain.MaxBullets
	}
	if !opts.Style.IsValid() {
		opts.Style = domain.StyleProfessional
	}
	return opts
}

// callWithRetry invokes the LLM, retrying only unavailable failures.
// Generation is a pure function of its inputs, so a retry is safe.
func (g *Generator) callWithRetry(ctx context.Context, messages []driven.ChatMessage) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= g.cfg.Retries; attempt++ {
		if attempt > 0 {
			wait := g.cfg.RetryBackoff * time.Duration(attempt)
			logger.Debug("Retrying generation in %s (attempt %d): %v", wait, attempt+1, lastErr)
			select {
			case <-ctx.Done():
				return "", contextFailure(ctx.Err())
			case <-time.After(wait):
			}
		}

		text, err := g.call(ctx, messages)
		if err == nil {
			return text, nil
		}
		lastErr = err

		var ge *domain.GenerationError
		if !errors.As(err, &ge) || !ge.IsRetryable() {
			return "", err
		}
	}
	return "", lastErr
}

// call runs one LLM request bounded by the configured timeout. The request
// runs in its own goroutine so a provider that ignores cancellation cannot
// hold the caller past the deadline.
func (g *Generator) call(ctx context.Context, messages []driven.ChatMessage) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return "", contextFailure(ctx.Err())
			}
			return "", domain.NewGenerationError(domain.GenerationUnavailable, fmt.Errorf("rate limit: %w", err))
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := g.llm.Chat(callCtx, messages, driven.ChatOptions{
			MaxTokens:   g.cfg.MaxTokens,
			Temperature: g.cfg.Temperature,
		})
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		switch {
		case r.err == nil && strings.TrimSpace(r.text) == "":
			return "", domain.NewGenerationError(domain.GenerationMalformed, errors.New("empty response"))
		case r.err == nil:
			return r.text, nil
		case errors.Is(r.err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
			return "", domain.NewGenerationError(domain.GenerationTimeout, r.err)
		default:
			return "", domain.NewGenerationError(domain.GenerationUnavailable, r.err)
		}
	case <-callCtx.Done():
		if ctx.Err() == nil {
			return "", domain.NewGenerationError(domain.GenerationTimeout,
				fmt.Errorf("no response within %s: %w", g.cfg.Timeout, callCtx.Err()))
		}
		return "", contextFailure(ctx.Err())
	}
}

// contextFailure classifies the end of the caller's context. A deadline is
// a timeout; cancellation is not.
func contextFailure(err error) *domain.GenerationError {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewGenerationError(domain.GenerationTimeout, err)
	}
	return domain.NewGenerationError(domain.GenerationUnavailable, err)
}
