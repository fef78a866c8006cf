package services

import (
	"fmt"
	"slices"
	"time"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedCacheDir   = "embedding.cache_dir"
	keyEmbedDimensions = "embedding.dimensions"
	keyEmbedBatchSize  = "embedding.batch_size"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyChunkMaxWords   = "chunking.max_words"
	keyChunkMinWords   = "chunking.min_words"
	keyRetrievalLimit  = "retrieval.limit"
	keyRetrievalScore  = "retrieval.min_score"
	keyGenMaxBullets   = "generation.max_bullets"
	keyGenStyle        = "generation.style"
	keyGenTemperature  = "generation.temperature"
	keyGenMaxTokens    = "generation.max_tokens"
	keyGenTimeout      = "generation.timeout"
	keyGenRetries      = "generation.retries"
	keyGenRPS          = "generation.requests_per_second"
	keyStorageDriver   = "storage.driver"
	keyStorageDSN      = "storage.dsn"
	keyServerAddr      = "server.addr"
	keyQueueURL        = "queue.url"
	keyQueueName       = "queue.queue"
	keyQueueExchange   = "queue.exchange"
	keyQueueWorkers    = "queue.workers"
	keyBlobBucket      = "blob.bucket"
	keyBlobEndpoint    = "blob.endpoint"
	keyBlobRegion      = "blob.region"
	keyBlobAccessKey   = "blob.access_key_id"
	keyBlobSecretKey   = "blob.secret_access_key"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	embedProvider := s.getProvider(keyEmbedProvider, d.Embedding.Provider)
	embedModel := s.getString(keyEmbedModel, "")
	if embedModel == "" {
		embedModel = domain.DefaultEmbeddingModels()[embedProvider]
	}

	llmProvider := s.getProvider(keyLLMProvider, d.LLM.Provider)
	llmModel := s.getString(keyLLMModel, "")
	if llmModel == "" {
		llmModel = domain.DefaultLLMModels()[llmProvider]
	}

	timeout, err := s.getDuration(keyGenTimeout, d.Generation.Timeout)
	if err != nil {
		return nil, err
	}

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   embedProvider,
			Model:      embedModel,
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			CacheDir:   s.configStore.GetString(keyEmbedCacheDir),
			Dimensions: s.getInt(keyEmbedDimensions, d.Embedding.Dimensions),
			BatchSize:  s.getInt(keyEmbedBatchSize, d.Embedding.BatchSize),
		},
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			Model:    llmModel,
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Chunking: domain.ChunkingSettings{
			MaxWords: s.getInt(keyChunkMaxWords, d.Chunking.MaxWords),
			MinWords: s.getIntAllowZero(keyChunkMinWords, d.Chunking.MinWords),
		},
		Retrieval: domain.RetrievalSettings{
			Limit:    s.getInt(keyRetrievalLimit, d.Retrieval.Limit),
			MinScore: s.getFloat(keyRetrievalScore, d.Retrieval.MinScore),
		},
		Generation: domain.GenerationSettings{
			MaxBullets:        s.getInt(keyGenMaxBullets, d.Generation.MaxBullets),
			Style:             s.getStyle(d.Generation.Style),
			Temperature:       s.getFloat(keyGenTemperature, d.Generation.Temperature),
			MaxTokens:         s.getInt(keyGenMaxTokens, d.Generation.MaxTokens),
			Timeout:           timeout,
			Retries:           s.getIntAllowZero(keyGenRetries, d.Generation.Retries),
			RequestsPerSecond: s.getFloat(keyGenRPS, d.Generation.RequestsPerSecond),
		},
		Storage: domain.StorageSettings{
			Driver: s.getStorageDriver(d.Storage.Driver),
			DSN:    s.configStore.GetString(keyStorageDSN),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, d.Server.Addr),
		},
		Queue: domain.QueueSettings{
			URL:      s.configStore.GetString(keyQueueURL),
			Queue:    s.getString(keyQueueName, d.Queue.Queue),
			Exchange: s.getString(keyQueueExchange, d.Queue.Exchange),
			Workers:  s.getInt(keyQueueWorkers, d.Queue.Workers),
		},
		Blob: domain.BlobSettings{
			Bucket:          s.configStore.GetString(keyBlobBucket),
			Endpoint:        s.configStore.GetString(keyBlobEndpoint),
			Region:          s.getString(keyBlobRegion, d.Blob.Region),
			AccessKeyID:     s.configStore.GetString(keyBlobAccessKey),
			SecretAccessKey: s.configStore.GetString(keyBlobSecretKey),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedCacheDir, settings.Embedding.CacheDir},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyChunkMaxWords, settings.Chunking.MaxWords},
		{keyChunkMinWords, settings.Chunking.MinWords},
		{keyRetrievalLimit, settings.Retrieval.Limit},
		{keyRetrievalScore, settings.Retrieval.MinScore},
		{keyGenMaxBullets, settings.Generation.MaxBullets},
		{keyGenStyle, settings.Generation.Style.String()},
		{keyGenTemperature, settings.Generation.Temperature},
		{keyGenMaxTokens, settings.Generation.MaxTokens},
		{keyGenTimeout, settings.Generation.Timeout.String()},
		{keyGenRetries, settings.Generation.Retries},
		{keyGenRPS, settings.Generation.RequestsPerSecond},
		{keyStorageDriver, string(settings.Storage.Driver)},
		{keyStorageDSN, settings.Storage.DSN},
		{keyServerAddr, settings.Server.Addr},
		{keyQueueURL, settings.Queue.URL},
		{keyQueueName, settings.Queue.Queue},
		{keyQueueExchange, settings.Queue.Exchange},
		{keyQueueWorkers, settings.Queue.Workers},
		{keyBlobBucket, settings.Blob.Bucket},
		{keyBlobEndpoint, settings.Blob.Endpoint},
		{keyBlobRegion, settings.Blob.Region},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Secrets are only written when set, so env-provided keys are not persisted as blanks.
	secrets := map[string]string{
		keyEmbedAPIKey:   settings.Embedding.APIKey,
		keyLLMAPIKey:     settings.LLM.APIKey,
		keyBlobAccessKey: settings.Blob.AccessKeyID,
		keyBlobSecretKey: settings.Blob.SecretAccessKey,
	}
	for key, val := range secrets {
		if val == "" {
			continue
		}
		if err := s.configStore.Set(key, val); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return nil
}

// Set stores a single configuration key.
func (s *SettingsService) Set(key string, value any) error {
	if key == "" {
		return fmt.Errorf("%w: key is required", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if _, err := s.Get(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	if provider == domain.AIProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// Update vector dimensions based on model
	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if !provider.SupportsLLM() {
		return fmt.Errorf("provider %s does not support text generation", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider)
	}
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not configured", settings.LLM.Provider)
	}
	if settings.Chunking.MinWords > settings.Chunking.MaxWords {
		return fmt.Errorf("chunking.min_words (%d) exceeds chunking.max_words (%d)",
			settings.Chunking.MinWords, settings.Chunking.MaxWords)
	}
	if mb := settings.Generation.MaxBullets; mb < domain.MinBullets || mb > domain.MaxBullets {
		return fmt.Errorf("generation.max_bullets must be between %d and %d, got %d",
			domain.MinBullets, domain.MaxBullets, mb)
	}
	if !settings.Storage.Driver.IsValid() {
		return fmt.Errorf("invalid storage driver: %s", settings.Storage.Driver)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero treats an explicit zero as a value rather than unset.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getStyle(defaultVal domain.Style) domain.Style {
	style := domain.Style(s.configStore.GetString(keyGenStyle))
	if !style.IsValid() {
		return defaultVal
	}
	return style
}

func (s *SettingsService) getStorageDriver(defaultVal domain.StorageDriver) domain.StorageDriver {
	driver := domain.StorageDriver(s.configStore.GetString(keyStorageDriver))
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}
