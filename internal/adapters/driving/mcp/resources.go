package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for tailor resources.
	uriScheme = "tailor://"

	resumesURI = uriScheme + "resumes"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         resumesURI,
		Name:        "resumes",
		Description: "List of stored résumés",
		MIMEType:    "application/json",
	}, s.handleResumesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resumesURI + "/{resumeId}",
		Name:        "resume-chunks",
		Description: "The chunks of a stored résumé, in order",
		MIMEType:    "text/plain",
	}, s.handleResumeResource)
}

// handleResumesResource returns the stored résumés.
func (s *Server) handleResumesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing resumes: %w", err)
	}

	type resumeInfo struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		CreatedAt string `json:"created_at"`
	}

	infos := make([]resumeInfo, len(docs))
	for i := range docs {
		infos[i] = resumeInfo{
			ID:        docs[i].ID,
			Title:     docs[i].Title,
			CreatedAt: docs[i].CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resumes: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleResumeResource returns a résumé's chunks labelled by position.
func (s *Server) handleResumeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractResumeID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunks, err := s.ports.Document.Chunks(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting resume chunks: %w", err)
	}

	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s", c.Position, c.Content)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		}},
	}, nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractResumeID extracts the résumé ID from a URI like tailor://resumes/{resumeId}.
func extractResumeID(uri string) string {
	const prefix = resumesURI + "/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
