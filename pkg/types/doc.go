// Package types provides the domain types shared by every component of the
// code search engine, and by anything that embeds it (a CLI, an HTTP
// handler, an MCP tool adapter).
//
// # Core types
//
// Chunk is the fundamental indexed record: one semantic unit of source code,
// produced by the chunker and consumed by the embedder, the vector store,
// and the full-text store alike:
//
//	chunk := &types.Chunk{
//	    Path:      "internal/auth/handler.go",
//	    StartLine: 10,
//	    EndLine:   24,
//	    Kind:      types.KindFunction,
//	    Name:      "authenticate",
//	    Content:   body,
//	}
//	chunk.ComputeContentHash()
//
// FileMeta links a path to the set of chunk ids currently representing it,
// and carries the whole-file hash/mtime/size the maintainer uses to decide
// whether a file needs re-chunking at all.
//
// Manifest is the index's self-description: model id, vector width, schema
// and chunker versions.
//
// # Validation
//
// Chunk, Manifest, and SearchResult all implement Validate to catch
// malformed records before they reach a store:
//
//	if err := chunk.Validate(); err != nil {
//	    return err
//	}
//
// # Errors
//
// CategorizedError groups every error the core returns into one of five
// buckets (NotFound, Corruption, Transient, FatalInfrastructure,
// InvalidInput); callers branch on CategoryOf rather than on string
// matching or a deep type switch.
package types
