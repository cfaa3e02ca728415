package types

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

// ChunkKind is the declaration shape a Chunk was extracted from.
type ChunkKind string

const (
	KindFunction  ChunkKind = "function"
	KindMethod    ChunkKind = "method"
	KindClass     ChunkKind = "class"
	KindStruct    ChunkKind = "struct"
	KindInterface ChunkKind = "interface" // also covers Rust/Go trait-shaped declarations
	KindEnum      ChunkKind = "enum"
	KindModule    ChunkKind = "module"
	KindImpl      ChunkKind = "impl"
	KindBlock     ChunkKind = "block" // sliding-window fallback chunk
	KindFile      ChunkKind = "file"  // whole-file chunk, used for tiny files with no declarations
)

// Chunk is one indexed semantic unit of source code.
//
// A Chunk's identity is the tuple (Path, StartLine, EndLine, ContentHash): the
// same tuple always maps to the same ID across rebuilds, so re-indexing
// unchanged code never churns the vector or full-text stores.
type Chunk struct {
	ID int64

	Path      string // repo-relative, forward slashes
	StartLine int    // 1-based, inclusive
	EndLine   int    // 1-based, inclusive

	Kind      ChunkKind
	Name      string // primary identifier, empty for Block/File chunks
	Signature string // normalized one-line declaration header, empty when not applicable
	Breadcrumb string // enclosing named scopes, e.g. "mod auth :: impl Handler :: fn authenticate"

	Content     string
	ContentHash [32]byte

	Language string

	// Embedding is absent (nil) before the chunk has been through the
	// embedder; the vector store never persists a Chunk with a nil Embedding.
	Embedding []float32
}

// ComputeContentHash fills ContentHash from the current Content.
func (c *Chunk) ComputeContentHash() {
	c.ContentHash = sha256.Sum256([]byte(c.Content))
}

// ComputeID derives ID from (Path, StartLine, EndLine, ContentHash), the
// tuple that defines a chunk's identity. Call after ComputeContentHash.
// Deterministic across rebuilds: re-indexing unchanged code reproduces the
// same ID, so the vector and full-text stores never churn on a no-op pass.
func (c *Chunk) ComputeID() {
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d:%s", c.Path, c.StartLine, c.EndLine, c.HashHex())))
	c.ID = int64(binary.BigEndian.Uint64(digest[:8]) &^ (1 << 63))
}

// HashHex returns the hex-encoded content hash, the cache and FileMeta key shape.
func (c *Chunk) HashHex() string {
	return hashHex(c.ContentHash)
}

// ValidateKind reports whether Kind is one of the closed set of declaration shapes.
func (c *Chunk) ValidateKind() error {
	switch c.Kind {
	case KindFunction, KindMethod, KindClass, KindStruct, KindInterface,
		KindEnum, KindModule, KindImpl, KindBlock, KindFile:
		return nil
	default:
		return ErrInvalidChunkKind
	}
}

// Validate performs the invariant checks named in the data model: end_line >=
// start_line, start_line >= 1, content present, content_hash matches content,
// and Kind is one of the closed set.
func (c *Chunk) Validate() error {
	if c.Path == "" {
		return errors.New("chunk path is required")
	}
	if c.Content == "" {
		return ErrEmptyContent
	}
	if c.StartLine < 1 {
		return errors.New("start_line must be >= 1")
	}
	if c.EndLine < c.StartLine {
		return errors.New("end_line must be >= start_line")
	}
	if err := c.ValidateKind(); err != nil {
		return err
	}
	var zero [32]byte
	if c.ContentHash == zero {
		return errors.New("content hash must be computed")
	}
	want := sha256.Sum256([]byte(c.Content))
	if want != c.ContentHash {
		return errors.New("content hash does not match content")
	}
	return nil
}

func hashHex(h [32]byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, 64)
	for i, b := range h {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0f]
	}
	return string(out)
}
