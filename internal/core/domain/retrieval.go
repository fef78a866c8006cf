package domain

// ScoredChunk pairs a chunk with its similarity to a query.
type ScoredChunk struct {
	Chunk Chunk `json:"chunk"`

	// Score is the cosine similarity in [-1, 1].
	Score float64 `json:"score"`
}

// RetrievalResult is an ordered list of chunks, highest similarity first.
// It is never persisted.
type RetrievalResult struct {
	DocumentID string        `json:"document_id"`
	Query      string        `json:"query"`
	Chunks     []ScoredChunk `json:"chunks"`

	// Scored counts the chunks ranked before the score floor and limit
	// were applied.
	Scored int `json:"scored"`
}

// Len returns the number of retrieved chunks.
func (r RetrievalResult) Len() int {
	return len(r.Chunks)
}

// Positions returns the chunk positions in rank order.
func (r RetrievalResult) Positions() []int {
	out := make([]int, len(r.Chunks))
	for i, sc := range r.Chunks {
		out[i] = sc.Chunk.Position
	}
	return out
}

// RetrievalOptions configures a retrieval.
type RetrievalOptions struct {
	// Limit is the maximum number of chunks returned (k).
	// Zero or negative returns an empty result.
	Limit int

	// MinScore drops chunks whose similarity falls below it.
	// Zero disables the floor.
	MinScore float64
}
