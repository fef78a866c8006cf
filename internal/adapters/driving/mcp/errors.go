// Package mcp provides an MCP (Model Context Protocol) server adapter for tailor.
// It lets AI assistants ingest résumés and request cited, tailored bullets.
package mcp

import "errors"

// ErrMissingTailorService is returned when the tailor service is not provided.
var ErrMissingTailorService = errors.New("mcp: tailor service is required")
