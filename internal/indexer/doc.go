// Package indexer implements the maintainer: the write path that keeps the
// vector store, the full-text store, and the file-meta store in agreement
// about which chunks exist for which files.
//
// IndexFull and IndexIncremental share one streaming core (run): walk the
// tree, classify every discovered path against the stored FileMeta as
// unchanged, changed, new, or deleted, delete the chunks recorded for
// anything in changed∪deleted, then stream-chunk, embed, and upsert
// changed∪new one file at a time. IndexFull differs only in skipping the
// mtime/size short-circuit that lets IndexIncremental avoid re-hashing
// untouched files, and in always calling ReindexANN once at the end.
//
// Every run, including one that finds nothing to do, holds the index
// directory's advisory write lock (AcquireWriteLock) for its whole duration;
// at most one Maintainer run may hold it at a time. A run that finds nothing
// to do returns Stats.UpToDate without writing to any store.
package indexer
