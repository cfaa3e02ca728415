// Package searcher answers hybrid search and find_references queries over
// one index's vector and full-text stores.
//
// Search runs three conceptual legs per query: an embedding call, a vector
// similarity search that depends on it, and an independent full-text
// search. The embed and vector legs run as two goroutines chained by a
// channel; the full-text leg runs concurrently in its own goroutine with
// no dependency on the other two. In hybrid modes either leg may fail
// without failing the query, as long as the other produced results; in
// mode=vector a failed embed or vector search is fatal since there is no
// second leg to fall back to.
//
// Results from both legs are combined with Reciprocal Rank Fusion
// (fuseRanks), optionally passed through a Reranker over the top
// RerankTop candidates (mode=hybrid+rerank), then narrowed by FilterPath,
// capped per file, and truncated to K.
//
// A query containing a recognized structural keyword ("struct", "class",
// "interface", ...) alongside a PascalCase or snake_case identifier is
// treated as carrying structural intent: the full-text leg is restricted
// to chunks of the named kind. An empty index, or a filter that leaves
// nothing standing, is not an error — both simply produce an empty result
// slice.
package searcher
