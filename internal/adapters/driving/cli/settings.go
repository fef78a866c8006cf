package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, storage, chunking, retrieval and
generation options.

Settings are stored in ~/.tailor/config.toml. Environment variables named
TAILOR_<SECTION>_<KEY> (for example TAILOR_LLM_API_KEY) override the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by its dotted key, for example:

  tailor settings set generation.style impact
  tailor settings set retrieval.limit 8
  tailor settings set storage.driver postgres`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used to index résumé chunks.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider that writes tailored bullets.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// Embedding settings
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", displayAPIKey(settings.Embedding.APIKey))
	}
	cmd.Printf("  Batch size: %d\n", settings.Embedding.BatchSize)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	// LLM settings
	cmd.Println("[LLM]")
	if settings.LLM.Provider == "" {
		cmd.Println("  Provider: (not set)")
	} else {
		cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
		cmd.Printf("  Model: %s\n", settings.LLM.Model)
	}
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", displayAPIKey(settings.LLM.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Max words: %d\n", settings.Chunking.MaxWords)
	cmd.Printf("  Min words: %d\n", settings.Chunking.MinWords)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Limit: %d\n", settings.Retrieval.Limit)
	if settings.Retrieval.MinScore != 0 {
		cmd.Printf("  Min score: %.2f\n", settings.Retrieval.MinScore)
	}
	cmd.Println()

	cmd.Println("[Generation]")
	cmd.Printf("  Max bullets: %d\n", settings.Generation.MaxBullets)
	cmd.Printf("  Style: %s\n", settings.Generation.Style)
	cmd.Printf("  Temperature: %.2f\n", settings.Generation.Temperature)
	cmd.Printf("  Max tokens: %d\n", settings.Generation.MaxTokens)
	cmd.Printf("  Timeout: %s\n", settings.Generation.Timeout)
	cmd.Printf("  Retries: %d\n", settings.Generation.Retries)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Driver: %s\n", settings.Storage.Driver)
	if settings.Storage.DSN != "" {
		cmd.Printf("  DSN: %s\n", settings.Storage.DSN)
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Println()

	cmd.Println("[Queue]")
	if settings.Queue.URL == "" {
		cmd.Println("  URL: (not set)")
	} else {
		cmd.Println("  URL: (set)")
	}
	cmd.Printf("  Queue: %s\n", settings.Queue.Queue)
	cmd.Printf("  Exchange: %s\n", settings.Queue.Exchange)
	cmd.Printf("  Workers: %d\n", settings.Queue.Workers)
	cmd.Println()

	cmd.Println("[Blob]")
	cmd.Printf("  Bucket: %s\n", valueOrUnset(settings.Blob.Bucket))
	if settings.Blob.Endpoint != "" {
		cmd.Printf("  Endpoint: %s\n", settings.Blob.Endpoint)
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Blob.IsConfigured()))
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'tailor settings embedding' or 'tailor settings llm' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], parseSettingValue(args[1])
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureLLMProvider(cmd, reader)
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// parseSettingValue stores numbers and booleans with their type so the
// TOML file stays typed.
func parseSettingValue(raw string) any {
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func displayAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
