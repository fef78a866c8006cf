// Package fastembed provides an in-process embedding service running ONNX
// models through FastEmbed. Builds without cgo get a stub that reports the
// provider as unavailable.
package fastembed

import (
	"errors"
	"os"
	"path/filepath"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "BAAI/bge-small-en-v1.5"

// DefaultMaxLength is the maximum input sequence length in tokens.
const DefaultMaxLength = 512

// ErrUnavailable is returned by builds without cgo.
var ErrUnavailable = errors.New("fastembed: not available (binary built without cgo)")

// Config holds configuration for the FastEmbed embedding service.
type Config struct {
	// Model is the model name (default: BAAI/bge-small-en-v1.5).
	Model string

	// CacheDir holds downloaded model files (default: ~/.tailor/models).
	CacheDir string

	// MaxLength is the maximum input sequence length (default: 512).
	MaxLength int
}

// modelDimensions lists the supported models and their vector sizes.
var modelDimensions = map[string]int{
	"BAAI/bge-small-en-v1.5":                 384,
	"BAAI/bge-small-en":                      384,
	"BAAI/bge-base-en-v1.5":                  768,
	"BAAI/bge-base-en":                       768,
	"sentence-transformers/all-MiniLM-L6-v2": 384,
}

// Dimensions returns the vector size of a supported model.
func Dimensions(model string) (int, bool) {
	d, ok := modelDimensions[model]
	return d, ok
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxLength == 0 {
		c.MaxLength = DefaultMaxLength
	}
	if c.CacheDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.CacheDir = filepath.Join(home, ".tailor", "models")
		} else {
			c.CacheDir = filepath.Join(".", "local_cache")
		}
	}
	return c
}
