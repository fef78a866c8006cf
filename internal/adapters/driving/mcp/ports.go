package mcp

import (
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Tailor generates bullets and previews retrieval.
	Tailor driving.TailorService

	// Ingest stores new résumés. Optional; ingest_resume is only
	// registered when set.
	Ingest driving.IngestService

	// Document lists stored résumés. Optional.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Tailor == nil {
		return ErrMissingTailorService
	}
	return nil
}
