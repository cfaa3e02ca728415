// Package vectorstore persists chunk metadata and embeddings and answers
// approximate-nearest-neighbor queries over them.
//
// Two build configurations exist, selected by Go build tags rather than
// runtime detection: a cgo build (tag sqlite_vec) links sqlite-vec's vec0
// virtual table for real ANN search; a purego build falls back to a
// Go-computed brute-force cosine scan. Both keep their ANN structure
// always current, so ReindexANN is a documented no-op in both.
package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/pleme-io/codesearch/pkg/types"
)

// EnvMapSizeMB names the environment variable that bounds how much of the
// vector store SQLite is allowed to memory-map, applied as the mmap_size
// pragma on every connection Open makes.
const EnvMapSizeMB = "LMDB_MAP_SIZE_MB"

const defaultMapSizeMB = 2048

// ScoredID is one ANN search hit: a chunk ID and its cosine similarity to
// the query vector.
type ScoredID struct {
	ID    int64
	Score float64
}

// Store is the persistent, memory-mapped home for chunk records and their
// embeddings.
type Store interface {
	// Upsert writes or replaces chunks atomically, keyed by chunk ID. A chunk
	// with a zero ID first gets one from types.Chunk.ComputeID; a stored chunk
	// with the same ID is replaced.
	Upsert(ctx context.Context, chunks []types.Chunk) error
	// Delete removes both the metadata and the ANN entries for ids.
	Delete(ctx context.Context, ids []int64) error
	// DeleteByPath removes every chunk recorded for path and returns their IDs.
	DeleteByPath(ctx context.Context, path string) ([]int64, error)
	// Search returns up to k (id, cosine_similarity) pairs for vector.
	Search(ctx context.Context, vector []float32, k int) ([]ScoredID, error)
	// Get returns the chunk stored under id.
	Get(ctx context.Context, id int64) (*types.Chunk, error)
	// IDsForPath returns every chunk ID currently recorded for path.
	IDsForPath(ctx context.Context, path string) ([]int64, error)
	// ReindexANN rebuilds the ANN structure after large batches. A no-op in
	// both build configurations, since each keeps its structure always current.
	ReindexANN(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store over SQLite, driver and ANN backend
// selected at build time.
type SQLiteStore struct {
	db  *sql.DB
	dim int
}

// Open creates or opens the vector store at dbPath for vectors of width
// dim, initializing its schema if needed.
func Open(dbPath string, dim int) (*SQLiteStore, error) {
	db, err := sql.Open(DriverName, dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init vector store schema: %w", err)
	}
	if err := annInit(db, dim); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init ann structure: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA mmap_size = %d", mapSizeBytes())); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set mmap_size: %w", err)
	}
	return &SQLiteStore{db: db, dim: dim}, nil
}

// mapSizeBytes reads LMDB_MAP_SIZE_MB, falling back to defaultMapSizeMB
// when unset or unparseable.
func mapSizeBytes() int64 {
	mb := int64(defaultMapSizeMB)
	if v := os.Getenv(EnvMapSizeMB); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			mb = n
		}
	}
	return mb * 1024 * 1024
}

func (s *SQLiteStore) Upsert(ctx context.Context, chunks []types.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO chunks (id, path, start_line, end_line, kind, name, signature, breadcrumb, content, content_hash, language)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i := range chunks {
		c := &chunks[i]
		if c.ID == 0 {
			c.ComputeID()
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Path, c.StartLine, c.EndLine, string(c.Kind), c.Name, c.Signature, c.Breadcrumb, c.Content, c.HashHex(), c.Language); err != nil {
			return fmt.Errorf("upsert chunk %d (%s:%d): %w", c.ID, c.Path, c.StartLine, err)
		}
		if len(c.Embedding) > 0 {
			if err := annUpsert(tx, c.ID, c.Embedding); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE id = ?", id); err != nil {
			return err
		}
	}
	if err := annDelete(tx, ids); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) DeleteByPath(ctx context.Context, path string) ([]int64, error) {
	ids, err := s.IDsForPath(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := s.Delete(ctx, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *SQLiteStore) IDsForPath(ctx context.Context, path string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM chunks WHERE path = ?", path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Search(ctx context.Context, vector []float32, k int) ([]ScoredID, error) {
	if k <= 0 {
		return nil, nil
	}
	return annSearch(s.db, vector, k)
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*types.Chunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, start_line, end_line, kind, name, signature, breadcrumb, content, language
		FROM chunks WHERE id = ?
	`, id)

	var c types.Chunk
	var kind string
	if err := row.Scan(&c.ID, &c.Path, &c.StartLine, &c.EndLine, &kind, &c.Name, &c.Signature, &c.Breadcrumb, &c.Content, &c.Language); err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFound(fmt.Sprintf("chunk %d", id), err)
		}
		return nil, err
	}
	c.Kind = types.ChunkKind(kind)
	c.ComputeContentHash()
	return &c, nil
}

func (s *SQLiteStore) ReindexANN(ctx context.Context) error {
	return reindexANNImpl(s.db)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
