package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return an error
	// so the caller can fall back to its built-in template.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptTailorSystem is the system prompt for bullet generation.
	// The template expects one %s placeholder for the style instruction.
	PromptTailorSystem = "tailor_system"

	// PromptTailorUser is the user prompt for bullet generation.
	// The template expects %s (job description), %s (labelled chunks)
	// and %d (maximum bullets) placeholders.
	PromptTailorUser = "tailor_user"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
