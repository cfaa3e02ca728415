// Package ftstore is the sparse side of the dual index: a bleve-backed BM25
// inverted index over chunk text, name, signature, breadcrumb, and path,
// with code-aware tokenization (camelCase/snake_case splitting) and
// per-field score weights.
package ftstore
