// Package filemeta is a path-keyed store of per-file indexing state: the
// content hash, mtime, and size an index last saw for each file, plus the
// chunk IDs it produced. The indexer diffs against this store to classify
// files as unchanged, changed, new, or deleted without re-reading content.
package filemeta

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	bolt "go.etcd.io/bbolt"

	"github.com/pleme-io/codesearch/pkg/types"
)

// envMapSizeMB and defaultMapSizeMB mirror internal/vectorstore's
// LMDB_MAP_SIZE_MB contract: bbolt's InitialMmapSize plays the same role
// here that SQLite's mmap_size pragma plays for the vector store.
const (
	envMapSizeMB     = "LMDB_MAP_SIZE_MB"
	defaultMapSizeMB = 2048
)

var bucketName = []byte("file_meta")

// Store wraps a bbolt database holding one JSON-encoded types.FileMeta per
// indexed path.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the file-meta store at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{InitialMmapSize: mapSizeBytes()})
	if err != nil {
		return nil, fmt.Errorf("open file-meta store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init file-meta bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the stored metadata for path, or (nil, false) if none.
func (s *Store) Get(path string) (*types.FileMeta, bool, error) {
	var meta *types.FileMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte(path))
		if raw == nil {
			return nil
		}
		var m types.FileMeta
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("decode file meta for %s: %w", path, err)
		}
		meta = &m
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return meta, meta != nil, nil
}

// Put writes or replaces the metadata for meta.Path.
func (s *Store) Put(meta *types.FileMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode file meta for %s: %w", meta.Path, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(meta.Path), data)
	})
}

// Delete removes the metadata recorded for path.
func (s *Store) Delete(path string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(path))
	})
}

// IterPaths calls fn for every path currently recorded, in bbolt's
// byte-sorted key order. Returning an error from fn stops iteration and
// propagates that error.
func (s *Store) IterPaths(fn func(path string) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, _ []byte) error {
			return fn(string(k))
		})
	})
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// mapSizeBytes reads LMDB_MAP_SIZE_MB, falling back to defaultMapSizeMB
// when unset or unparseable.
func mapSizeBytes() int {
	mb := defaultMapSizeMB
	if v := os.Getenv(envMapSizeMB); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			mb = n
		}
	}
	return mb * 1024 * 1024
}
