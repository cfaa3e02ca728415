package types

import "time"

// FileMeta is the per-path record the maintainer uses to classify a file as
// unchanged, changed, new, or deleted between two indexing passes.
type FileMeta struct {
	Path        string
	ContentHash [32]byte
	ModTime     time.Time
	Size        int64
	ChunkIDs    []int64 // ordered, matches the order chunks were emitted in
}

// HashHex returns the hex-encoded whole-file content hash.
func (f *FileMeta) HashHex() string {
	return hashHex(f.ContentHash)
}

// ChangeClass is the result of comparing a discovered file against its stored FileMeta.
type ChangeClass int

const (
	Unchanged ChangeClass = iota
	Changed
	New
	Deleted
)

func (c ChangeClass) String() string {
	switch c {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case New:
		return "new"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}
