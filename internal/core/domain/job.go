package domain

import "time"

// JobKind selects what a queued job does.
type JobKind string

// Job kinds.
const (
	JobIngest JobKind = "ingest"
	JobTailor JobKind = "tailor"
)

// JobStatus is the lifecycle state reported for a job.
type JobStatus string

// Job statuses.
const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job is an asynchronous ingestion or tailoring request.
type Job struct {
	ID   string  `json:"job_id"`
	Kind JobKind `json:"kind"`

	// Ingest fields.
	ObjectKey string `json:"object_key,omitempty"`
	MIMEType  string `json:"mime_type,omitempty"`
	Title     string `json:"title,omitempty"`

	// Tailor fields.
	ResumeID       string `json:"resume_id,omitempty"`
	JobDescription string `json:"jd_text,omitempty"`
	MaxBullets     int    `json:"max_bullets,omitempty"`
	Style          Style  `json:"style,omitempty"`
	RetrievalLimit int    `json:"retrieval_limit,omitempty"`
}

// JobEvent reports the progress of a job.
type JobEvent struct {
	JobID     string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Message   string    `json:"message,omitempty"`
	Result    any       `json:"result,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
