package http

import (
	"time"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// IngestTextRequest is the JSON body for POST /api/v1/resumes.
type IngestTextRequest struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

// TailorRequest is the request body for POST /api/v1/tailor.
type TailorRequest struct {
	ResumeID       string       `json:"resume_id"`
	JobDescription string       `json:"jd_text"`
	MaxBullets     int          `json:"max_bullets"`
	Style          domain.Style `json:"style"`
	RetrievalLimit int          `json:"retrieval_limit"`
}

// ResumeSummary is one entry of GET /api/v1/resumes.
type ResumeSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	MIMEType  string    `json:"mime_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ResumeListResponse is the response body for GET /api/v1/resumes.
type ResumeListResponse struct {
	Resumes []ResumeSummary `json:"resumes"`
	Count   int             `json:"count"`
}

// ResumeResponse is the response body for GET /api/v1/resumes/:id.
type ResumeResponse struct {
	domain.Document
	Chunks []domain.Chunk `json:"chunks"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
