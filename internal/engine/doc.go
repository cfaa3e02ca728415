// Package engine bundles the core components — vector store, full-text
// store, file-meta store, embedder, maintainer, and searcher — behind one
// handle per repository. Nothing in the engine is a package-level global:
// the embedding cache, the database-discovery root, and the active
// manifest all live on the Handle, so a process can open more than one
// handle to serve more than one repository concurrently.
//
// Open resolves an index directory with internal/dbdiscovery when no
// explicit root is given, creating a fresh one under the default
// .codesearch.db name if discovery finds nothing. Every operation after
// that — IndexFull, IndexIncremental, Clear, Search, FindReferences — is a
// plain method on the returned Handle; adapters (CLI, HTTP, MCP) are
// expected to call these and never reach into the component packages
// directly.
package engine
