package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/tailor/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store is the SQLite-backed document and chunk store.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.DocumentStore = (*Store)(nil)

// NewStore opens or creates the database at path and applies migrations.
// If path is empty, defaults to ~/.tailor/data/tailor.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".tailor", "data", "tailor.db")
	}

	dsn := MemoryPath
	if path != MemoryPath {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		// WAL mode for concurrent readers during ingestion
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_init.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// SaveDocument stores a document and its chunks in one transaction,
// replacing any chunks previously stored for the document.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	metadataJSON, err := marshalMetadata(doc.Metadata)
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
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uri = excluded.uri,
			title = excluded.title,
			mime_type = excluded.mime_type,
			content = excluded.content,
			metadata = excluded.metadata
	`, doc.ID, doc.URI, doc.Title, doc.MIMEType, doc.Content, metadataJSON, doc.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, position, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
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
		if _, err := stmt.ExecContext(ctx, chunk.ID, doc.ID, chunk.Content,
			chunk.Position, float32SliceToBytes(chunk.Embedding), chunkMeta); err != nil {
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
		FROM documents WHERE id = ?
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
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := []domain.Chunk{}
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// CountChunks returns the number of chunks stored for a document.
func (s *Store) CountChunks(ctx context.Context, documentID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks WHERE document_id = ?", documentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// DeleteDocument removes a document and its chunks.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", id); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	} else if n == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON string
	var createdAt time.Time

	if err := row.Scan(&doc.ID, &doc.URI, &doc.Title, &doc.MIMEType, &doc.Content,
		&metadataJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.CreatedAt = createdAt.UTC()

	if err := unmarshalMetadata(metadataJSON, &doc.Metadata); err != nil {
		return nil, err
	}
	return &doc, nil
}

func scanChunk(row scanner) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte
	var metadataJSON string

	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
		&chunk.Position, &embeddingBlob, &metadataJSON); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	if err := unmarshalMetadata(metadataJSON, &chunk.Metadata); err != nil {
		return nil, err
	}
	return &chunk, nil
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

func unmarshalMetadata(s string, dst *map[string]any) error {
	if s == "" || s == "{}" || s == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		return fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
