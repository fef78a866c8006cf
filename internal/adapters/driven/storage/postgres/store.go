// Package postgres provides a Postgres-backed chunk store for shared deployments.
//
// Embeddings are stored as REAL[] columns and scanned back whole; ranking
// stays in the retrieval service, so no pgvector extension is required.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id         TEXT PRIMARY KEY,
    uri        TEXT NOT NULL DEFAULT '',
    title      TEXT NOT NULL DEFAULT '',
    mime_type  TEXT NOT NULL DEFAULT '',
    content    TEXT NOT NULL,
    metadata   JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);

CREATE TABLE IF NOT EXISTS chunks (
    id          TEXT PRIMARY KEY,
    document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    content     TEXT NOT NULL,
    position    INTEGER NOT NULL,
    embedding   REAL[],
    metadata    JSONB NOT NULL DEFAULT '{}'::jsonb,
    UNIQUE (document_id, position)
);
`

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Store is the Postgres-backed document and chunk store.
type Store struct {
	db *sql.DB
}

var _ driven.DocumentStore = (*Store)(nil)

// NewStore connects to dsn and ensures the schema exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres DSN is required", domain.ErrInvalidInput)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDocument stores a document and its chunks in one transaction.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	meta, err := marshalMetadata(doc.Metadata)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, uri, title, mime_type, content, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			uri = EXCLUDED.uri,
			title = EXCLUDED.title,
			mime_type = EXCLUDED.mime_type,
			content = EXCLUDED.content,
			metadata = EXCLUDED.metadata
	`, doc.ID, doc.URI, doc.Title, doc.MIMEType, doc.Content, meta, doc.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = $1`, doc.ID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, position, embedding, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		chunkMeta, err := marshalMetadata(chunk.Metadata)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx, chunk.ID, doc.ID, chunk.Content, chunk.Position,
			pq.Float32Array(chunk.Embedding), chunkMeta)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return fmt.Errorf("%w: duplicate chunk position %d", domain.ErrInvalidInput, chunk.Position)
			}
			return fmt.Errorf("saving chunk %d: %w", chunk.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, uri, title, mime_type, content, metadata, created_at
		FROM documents WHERE id = $1
	`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// ListDocuments returns all documents, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, uri, title, mime_type, content, metadata, created_at
		FROM documents ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// ListVectors returns every chunk of a document ordered by position.
func (s *Store) ListVectors(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, position, embedding, metadata
		FROM chunks WHERE document_id = $1
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := []domain.Chunk{}
	for rows.Next() {
		var c domain.Chunk
		var embedding pq.Float32Array
		var meta []byte
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Content, &c.Position, &embedding, &meta); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Embedding = []float32(embedding)
		if err := unmarshalMetadata(meta, &c.Metadata); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// CountChunks returns the number of chunks stored for a document.
func (s *Store) CountChunks(ctx context.Context, documentID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE document_id = $1`, documentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// DeleteDocument removes a document; its chunks go with it by cascade.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var meta []byte
	if err := row.Scan(&doc.ID, &doc.URI, &doc.Title, &doc.MIMEType, &doc.Content, &meta, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.CreatedAt = doc.CreatedAt.UTC()
	if err := unmarshalMetadata(meta, &doc.Metadata); err != nil {
		return nil, err
	}
	return &doc, nil
}

func marshalMetadata(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshalling metadata: %w", err)
	}
	return string(b), nil
}

func unmarshalMetadata(b []byte, dst *map[string]any) error {
	if len(b) == 0 || string(b) == "{}" || string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return nil
}
