package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
)

// TailorInput is the input schema for the tailor_resume tool.
type TailorInput struct {
	ResumeID       string `json:"resume_id" jsonschema:"id of a stored résumé"`
	JobDescription string `json:"job_description" jsonschema:"the job description to tailor the résumé to"`
	MaxBullets     int    `json:"max_bullets,omitempty" jsonschema:"maximum number of bullets (1-20, default 8)"`
	Style          string `json:"style,omitempty" jsonschema:"professional, concise or impact"`
	RetrievalLimit int    `json:"retrieval_limit,omitempty" jsonschema:"number of chunks offered to the generator (default 12, max 50)"`
}

// TailorOutput is the output schema for the tailor_resume tool.
type TailorOutput struct {
	ResumeID string         `json:"resume_id"`
	Bullets  []BulletOutput `json:"bullets"`
	Sources  []ChunkOutput  `json:"sources"`
	Model    string         `json:"model"`
	Dropped  int            `json:"dropped_citations"`
}

// BulletOutput is one tailored bullet and the chunk positions it cites.
type BulletOutput struct {
	Text      string `json:"text"`
	Citations []int  `json:"citations"`
}

// PreviewInput is the input schema for the preview_chunks tool.
type PreviewInput struct {
	ResumeID       string `json:"resume_id" jsonschema:"id of a stored résumé"`
	JobDescription string `json:"job_description" jsonschema:"the job description to rank chunks against"`
	Limit          int    `json:"limit,omitempty" jsonschema:"maximum number of chunks (default 12)"`
}

// PreviewOutput is the output schema for the preview_chunks tool.
type PreviewOutput struct {
	Chunks []ChunkOutput `json:"chunks"`
	Count  int           `json:"count"`
}

// ChunkOutput is a retrieved chunk.
type ChunkOutput struct {
	Position int     `json:"position"`
	Score    float64 `json:"score,omitempty"`
	Content  string  `json:"content"`
}

// IngestInput is the input schema for the ingest_resume tool.
type IngestInput struct {
	Text  string `json:"text" jsonschema:"plain text or markdown of the résumé"`
	Title string `json:"title,omitempty" jsonschema:"optional title"`
}

// IngestOutput is the output schema for the ingest_resume tool.
type IngestOutput struct {
	ResumeID   string `json:"resume_id"`
	ChunkCount int    `json:"chunk_count"`
	WordCount  int    `json:"word_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tailor_resume",
		Description: "Generate résumé bullets tailored to a job description, each citing the résumé chunks it is based on",
	}, s.handleTailor)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preview_chunks",
		Description: "Show the résumé chunks most relevant to a job description without generating bullets",
	}, s.handlePreview)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_resume",
			Description: "Store a résumé so it can be tailored",
		}, s.handleIngest)
	}
}

// handleTailor handles the tailor_resume tool invocation.
func (s *Server) handleTailor(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TailorInput,
) (*mcp.CallToolResult, TailorOutput, error) {
	result, err := s.ports.Tailor.Tailor(ctx, driving.TailorRequest{
		DocumentID:     input.ResumeID,
		JobDescription: input.JobDescription,
		MaxBullets:     input.MaxBullets,
		Style:          domain.Style(strings.ToLower(input.Style)),
		RetrievalLimit: input.RetrievalLimit,
	})
	if err != nil {
		return nil, TailorOutput{}, err
	}

	output := TailorOutput{
		ResumeID: result.DocumentID,
		Bullets:  make([]BulletOutput, len(result.Bullets)),
		Sources:  make([]ChunkOutput, 0, len(result.CitedChunks)),
		Model:    result.Model,
		Dropped:  result.Stats.DroppedCitations,
	}
	for i, b := range result.Bullets {
		output.Bullets[i] = BulletOutput{Text: b.Text, Citations: b.Citations}
	}

	cited := make(map[int]bool, len(result.CitedChunks))
	for _, p := range result.CitedChunks {
		cited[p] = true
	}
	for _, sc := range result.Retrieved {
		if cited[sc.Chunk.Position] {
			output.Sources = append(output.Sources, ChunkOutput{
				Position: sc.Chunk.Position,
				Score:    sc.Score,
				Content:  sc.Chunk.Content,
			})
		}
	}

	return nil, output, nil
}

// handlePreview handles the preview_chunks tool invocation.
func (s *Server) handlePreview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PreviewInput,
) (*mcp.CallToolResult, PreviewOutput, error) {
	result, err := s.ports.Tailor.Preview(ctx, input.ResumeID, input.JobDescription, input.Limit)
	if err != nil {
		return nil, PreviewOutput{}, err
	}

	output := PreviewOutput{
		Chunks: make([]ChunkOutput, len(result.Chunks)),
		Count:  len(result.Chunks),
	}
	for i, sc := range result.Chunks {
		output.Chunks[i] = ChunkOutput{
			Position: sc.Chunk.Position,
			Score:    sc.Score,
			Content:  sc.Chunk.Content,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest_resume tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	result, err := s.ports.Ingest.Ingest(ctx, driving.IngestRequest{
		Text:     input.Text,
		Title:    input.Title,
		MIMEType: "text/markdown",
		URI:      "mcp://ingest_resume",
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		ResumeID:   result.DocumentID,
		ChunkCount: result.ChunkCount,
		WordCount:  result.WordCount,
	}, nil
}
