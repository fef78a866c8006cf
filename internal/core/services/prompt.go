package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// defaultTailorSystemPrompt is the fallback system prompt when no PromptStore is configured.
const defaultTailorSystemPrompt = `You are an expert résumé writer. You rewrite a candidate's experience into bullet points tailored to a job description.

Rules:
- Use ONLY facts stated in the labelled résumé excerpts. Never invent employers, titles, dates, tools or metrics.
- Every bullet MUST end with the label(s) of the excerpt(s) it is based on, for example [C1] or [C1, C3].
- Do not cite a label that was not given to you.
- Start every bullet on its own line with "• ".
- Output only bullets, with no heading or commentary.

Style: %s`

// defaultTailorUserPrompt is the fallback user prompt when no PromptStore is configured.
const defaultTailorUserPrompt = `JOB DESCRIPTION:
%s

RÉSUMÉ EXCERPTS:
%s

Write at most %d bullets that show how the candidate fits this job.`

// BuildMessages renders the system and user messages for one generation
// request. Each retrieved chunk is labelled with the tag of its 1-based rank.
func BuildMessages(
	prompts driven.PromptStore,
	jobDescription string,
	retrieved []domain.ScoredChunk,
	opts domain.GenerateOptions,
) []driven.ChatMessage {
	var excerpts strings.Builder
	for i, sc := range retrieved {
		if i > 0 {
			excerpts.WriteString("\n\n")
		}
		fmt.Fprintf(&excerpts, "[%s] %s", CitationTag(i+1), sc.Chunk.Content)
	}

	system := fmt.Sprintf(loadPrompt(prompts, driven.PromptTailorSystem, defaultTailorSystemPrompt),
		opts.Style.Description())
	user := fmt.Sprintf(loadPrompt(prompts, driven.PromptTailorUser, defaultTailorUserPrompt),
		strings.TrimSpace(jobDescription), excerpts.String(), opts.MaxBullets)

	return []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: user},
	}
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

// DefaultPrompts returns the built-in templates keyed by prompt name.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptTailorSystem: defaultTailorSystemPrompt,
		driven.PromptTailorUser:   defaultTailorUserPrompt,
	}
}
