package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderFastEmbed is an in-process ONNX embedding model.
	AIProviderFastEmbed AIProvider = "fastembed"

	// AIProviderHashing is an in-process feature-hashing embedder.
	// It needs no model download and is the offline default.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini,
		AIProviderFastEmbed, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs without a cloud account.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderFastEmbed || p == AIProviderHashing
}

// SupportsEmbedding returns true if the provider can produce vectors.
func (p AIProvider) SupportsEmbedding() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderFastEmbed, AIProviderHashing:
		return true
	default:
		return false
	}
}

// SupportsLLM returns true if the provider can generate text.
func (p AIProvider) SupportsLLM() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderFastEmbed:
		return "FastEmbed (in-process ONNX)"
	case AIProviderHashing:
		return "Feature hashing (in-process, offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// CacheDir holds downloaded model files (for FastEmbed).
	CacheDir string

	// Dimensions overrides the vector size where the provider allows it.
	Dimensions int

	// BatchSize is the number of texts embedded per call.
	BatchSize int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || !e.Provider.SupportsEmbedding() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic/Gemini).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || !l.Provider.SupportsLLM() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings bounds chunk sizes in words.
type ChunkingSettings struct {
	MaxWords int
	MinWords int
}

// RetrievalSettings holds retrieval defaults.
type RetrievalSettings struct {
	// Limit is the default number of chunks retrieved (k).
	Limit int

	// MinScore is the similarity floor; zero disables it.
	MinScore float64
}

// GenerationSettings holds generator behaviour.
type GenerationSettings struct {
	MaxBullets        int
	Style             Style
	Temperature       float64
	MaxTokens         int
	Timeout           time.Duration
	Retries           int
	RequestsPerSecond float64
}

// StorageDriver selects the persistence backend.
type StorageDriver string

// Available storage drivers.
const (
	StorageSQLite   StorageDriver = "sqlite"
	StoragePostgres StorageDriver = "postgres"
	StorageMemory   StorageDriver = "memory"
)

// IsValid returns true if the driver is recognised.
func (d StorageDriver) IsValid() bool {
	switch d {
	case StorageSQLite, StoragePostgres, StorageMemory:
		return true
	default:
		return false
	}
}

// StorageSettings selects and addresses the chunk store.
type StorageSettings struct {
	Driver StorageDriver

	// DSN is the Postgres connection string or the SQLite file path.
	// Empty means the default location under the data directory.
	DSN string
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	Addr string
}

// QueueSettings holds job queue configuration.
type QueueSettings struct {
	URL      string
	Queue    string
	Exchange string
	Workers  int
}

// BlobSettings addresses the object store holding uploaded files.
type BlobSettings struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// IsConfigured returns true if a bucket and credentials are set.
func (b BlobSettings) IsConfigured() bool {
	return b.Bucket != "" && b.AccessKeyID != "" && b.SecretAccessKey != ""
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Chunking   ChunkingSettings
	Retrieval  RetrievalSettings
	Generation GenerationSettings
	Storage    StorageSettings
	Server     ServerSettings
	Queue      QueueSettings
	Blob       BlobSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Embedding works offline out of the box; the LLM is left unconfigured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderHashing,
			Model:      DefaultEmbeddingModels()[AIProviderHashing],
			Dimensions: 384,
			BatchSize:  32,
		},
		LLM: LLMSettings{},
		Chunking: ChunkingSettings{
			MaxWords: 200,
			MinWords: 10,
		},
		Retrieval: RetrievalSettings{
			Limit: 12,
		},
		Generation: GenerationSettings{
			MaxBullets:        DefaultBullets,
			Style:             StyleProfessional,
			Temperature:       0.3,
			MaxTokens:         1000,
			Timeout:           60 * time.Second,
			Retries:           1,
			RequestsPerSecond: 2,
		},
		Storage: StorageSettings{
			Driver: StorageSQLite,
		},
		Server: ServerSettings{
			Addr: ":8080",
		},
		Queue: QueueSettings{
			Queue:    "tailor.jobs",
			Exchange: "tailor.events",
			Workers:  3,
		},
		Blob: BlobSettings{
			Region: "auto",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHashing,
		AIProviderFastEmbed,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHashing:   "hashing-v1",
		AIProviderFastEmbed: "BAAI/bge-small-en-v1.5",
		AIProviderOllama:    "nomic-embed-text",
		AIProviderOpenAI:    "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-2.0-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// FastEmbed models
		"BAAI/bge-small-en-v1.5":                 384,
		"BAAI/bge-base-en-v1.5":                  768,
		"sentence-transformers/all-MiniLM-L6-v2": 384,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"max_words": 200,
				"min_words": 10,
			},
		},
	}
}

// PipelineConfigFor builds a pipeline configuration from chunking settings.
func PipelineConfigFor(c ChunkingSettings) PipelineConfig {
	cfg := DefaultPipelineConfig()
	if c.MaxWords > 0 {
		cfg.ProcessorConfigs["chunker"]["max_words"] = c.MaxWords
	}
	if c.MinWords > 0 {
		cfg.ProcessorConfigs["chunker"]["min_words"] = c.MinWords
	}
	return cfg
}
