package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Wildcard matches any MIME type. A normaliser listing it is only used
// when nothing more specific applies.
const Wildcard = "*/*"

// Registry dispatches documents to normalisers by MIME type.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(normaliser driven.Normaliser) {
	if normaliser == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normalisers = append(r.normalisers, normaliser)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise extracts text with the best matching normaliser.
// Exact MIME matches win over "type/*" families, which win over Wildcard.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	mimeType := BaseMIMEType(raw.MIMEType)
	n := r.find(mimeType)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)
	}
	return n.Normalise(ctx, raw)
}

// SupportedMIMETypes returns all concrete MIME types that can be normalised.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var types []string
	for _, n := range r.normalisers {
		for _, t := range n.SupportedMIMETypes() {
			if strings.Contains(t, "*") {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}

func (r *Registry) find(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	family := ""
	if i := strings.IndexByte(mimeType, '/'); i > 0 {
		family = mimeType[:i] + "/*"
	}

	for _, pattern := range []string{mimeType, family, Wildcard} {
		if pattern == "" {
			continue
		}
		for _, n := range r.normalisers {
			for _, t := range n.SupportedMIMETypes() {
				if t == pattern {
					return n
				}
			}
		}
	}
	return nil
}

// BaseMIMEType lowercases a MIME type and strips parameters such as charset.
func BaseMIMEType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}
