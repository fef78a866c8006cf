package postprocessors

import (
	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - max_words (int): Maximum words per chunk (default: 200)
//   - min_words (int): Minimum words per chunk before merging (default: 10)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if n := getIntFromConfig(cfg, "max_words"); n > 0 {
			opts = append(opts, chunker.WithMaxWords(n))
		}
		if _, ok := cfg["min_words"]; ok {
			opts = append(opts, chunker.WithMinWords(getIntFromConfig(cfg, "min_words")))
		}
	}

	return chunker.New(opts...), nil
}

// BuildPipeline constructs a pipeline from configuration using the registry.
func BuildPipeline(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range cfg.Processors {
		proc, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		p.Add(proc)
	}
	return p, nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
