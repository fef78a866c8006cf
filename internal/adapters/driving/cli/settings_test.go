package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseSettingValue(t *testing.T) {
	assert.Equal(t, 8, parseSettingValue("8"))
	assert.Equal(t, 0.25, parseSettingValue("0.25"))
	assert.Equal(t, true, parseSettingValue("true"))
	assert.Equal(t, "impact", parseSettingValue("impact"))
	assert.Equal(t, "90s", parseSettingValue("90s"))
}

func TestDisplayAPIKey(t *testing.T) {
	assert.Equal(t, "(not set)", displayAPIKey(""))
	assert.Equal(t, "sk-1...cdef", displayAPIKey("sk-1234567890abcdef"))
}

func TestSettingsShowCmd(t *testing.T) {
	ts, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	ts.settings.settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-1234567890abcdef",
	}

	out, err := execute(t, "", "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "[Embedding]")
	assert.Contains(t, out, "Provider: Feature hashing (in-process, offline)")
	assert.Contains(t, out, "Provider: OpenAI (cloud)")
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.Contains(t, out, "Style: professional")
	assert.Contains(t, out, "Driver: sqlite")
	assert.Contains(t, out, "Queue: tailor.jobs")
	assert.Contains(t, out, "Configuration is valid.")
	assert.NotContains(t, out, "sk-1234567890abcdef")
}

func TestSettingsShowCmd_ValidationWarning(t *testing.T) {
	ts, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	svc := &validationFailingSettings{mockSettingsService: ts.settings}
	settingsService = svc

	out, err := execute(t, "", "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning: llm provider not configured")
}

type validationFailingSettings struct {
	*mockSettingsService
}

func (v *validationFailingSettings) Validate() error {
	return errors.New("llm provider not configured")
}

func TestSettingsSetCmd(t *testing.T) {
	ts, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute(t, "", "settings", "set", "retrieval.limit", "8")
	require.NoError(t, err)

	assert.Contains(t, out, "Set retrieval.limit")
	assert.Equal(t, "retrieval.limit", ts.settings.setKey)
	assert.Equal(t, 8, ts.settings.setValue)
}

func TestSettingsSetCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServicesWithMocks()
	defer cleanup()
	ts.settings.err = domain.ErrInvalidInput

	_, err := execute(t, "", "settings", "set", "generation.timeout", "soon")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSetCmd_RequiresTwoArgs(t *testing.T) {
	_, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	_, err := execute(t, "", "settings", "set", "retrieval.limit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}
