package file

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// DefaultEnvPrefix prefixes environment overrides: llm.api_key is read
// from TAILOR_LLM_API_KEY.
const DefaultEnvPrefix = "TAILOR"

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Configuration is stored in config.toml within the tailor config directory.
//
// When an environment prefix is set, environment variables take precedence
// over file values and are never written back to the file.
type ConfigStore struct {
	mu        sync.RWMutex
	filePath  string
	data      map[string]any
	envPrefix string
	lookupEnv func(string) (string, bool)
}

// Option configures a ConfigStore.
type Option func(*ConfigStore)

// WithEnv enables environment overrides under prefix.
func WithEnv(prefix string) Option {
	return func(s *ConfigStore) {
		s.envPrefix = strings.TrimSuffix(strings.ToUpper(prefix), "_")
	}
}

// WithDotEnv loads variables from .env files into the process environment
// before reading overrides. Missing files are ignored and variables
// already set are kept.
func WithDotEnv(paths ...string) Option {
	return func(_ *ConfigStore) {
		for _, p := range paths {
			if _, err := os.Stat(p); err != nil {
				continue
			}
			_ = godotenv.Load(p)
		}
	}
}

// withLookup replaces the environment lookup; used in tests.
func withLookup(fn func(string) (string, bool)) Option {
	return func(s *ConfigStore) {
		s.lookupEnv = fn
	}
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.tailor/config.toml.
func NewConfigStore(configDir string, opts ...Option) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".tailor")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath:  filepath.Join(configDir, "config.toml"),
		data:      make(map[string]any),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Load existing data if file exists
	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// EnvName returns the environment variable that overrides key.
func (s *ConfigStore) EnvName(key string) string {
	if s.envPrefix == "" {
		return ""
	}
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	return s.envPrefix + "_" + name
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	if name := s.EnvName(key); name != "" {
		if val, ok := s.lookupEnv(name); ok {
			return val, true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	// TOML integers are parsed as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// GetFloat retrieves a floating-point configuration value.
func (s *ConfigStore) GetFloat(key string) float64 {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, ok := s.Get(key)
	if !ok {
		return false
	}

	switch v := val.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	default:
		return false
	}
}

// GetStringSlice retrieves a string slice configuration value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}

	// TOML arrays are parsed as []any
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	default:
		return nil
	}
}

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	if key == "" {
		return errors.New("config key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(nestMap(s.data))
	if err != nil {
		return err
	}

	// Write with restricted permissions: the file may hold API keys
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file yet - that's fine, start empty
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	if loaded == nil {
		loaded = make(map[string]any)
	}

	// Flatten nested tables into dot-notation keys for easier access
	s.data = flattenMap(loaded, "")
	return nil
}

// Keys returns all keys held in the file, sorted.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// nestMap is the inverse of flattenMap, so the file is written as TOML tables.
// A key that is both a value and a table prefix keeps the value under its
// full dotted name.
func nestMap(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := root
		ok := true
		for _, part := range parts[:len(parts)-1] {
			child, exists := node[part]
			if !exists {
				next := make(map[string]any)
				node[part] = next
				node = next
				continue
			}
			next, isMap := child.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			node = next
		}
		if !ok {
			root[key] = flat[key]
			continue
		}
		leaf := parts[len(parts)-1]
		if _, isMap := node[leaf].(map[string]any); isMap {
			root[key] = flat[key]
			continue
		}
		node[leaf] = flat[key]
	}
	return root
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
