// Package language is the closed, small set of tree-sitter grammar
// registrations the chunker walks. Each file in this package registers
// exactly one language; adding support for a new language means adding a
// file here, never touching the chunker's traversal logic.
package language
