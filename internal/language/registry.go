// Package language maps file extensions to tree-sitter grammars and the
// declaration query each grammar exposes, plus a fallback binary/text
// sniffer for languages with no registered grammar.
package language

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/pleme-io/codesearch/pkg/types"
)

// Spec is a single language's grammar registration: the tree-sitter
// Language, a declaration-shaped query with @chunk/@name captures, the file
// extensions it claims, and the mapping from a captured node's grammar type
// name to one of the closed set of types.ChunkKind values.
type Spec struct {
	Name       string
	Language   *sitter.Language
	Query      string
	Extensions []string
	KindOf     func(nodeType string) types.ChunkKind
}

// Registry is a concurrency-safe extension→Spec lookup table. The chunker
// holds one Registry for the lifetime of an engine handle; registration
// happens once at construction.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]*Spec
	byLang map[string]*Spec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt:  make(map[string]*Spec),
		byLang: make(map[string]*Spec),
	}
}

// Register adds a Spec, indexing it by every extension it claims. A later
// registration for the same extension silently wins, mirroring the
// "closed, small, extend by adding an arm" guidance for the embedder
// variant: language registration is append-only configuration, not dynamic
// dispatch.
func (r *Registry) Register(spec *Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byLang[spec.Name] = spec
	for _, ext := range spec.Extensions {
		r.byExt[strings.ToLower(ext)] = spec
	}
}

// Lookup returns the Spec registered for path's extension, or nil if none.
func (r *Registry) Lookup(path string) *Spec {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byExt[ext]
}

// Name returns the language name registered for path, or "" if none.
func (r *Registry) Name(path string) string {
	if s := r.Lookup(path); s != nil {
		return s.Name
	}
	return ""
}

// RegisterAll wires every grammar this engine ships against a fresh registry.
func RegisterAll() *Registry {
	r := NewRegistry()
	RegisterGo(r)
	RegisterPython(r)
	RegisterJavaScript(r)
	RegisterTypeScript(r)
	RegisterJava(r)
	RegisterC(r)
	RegisterCPP(r)
	RegisterCSharp(r)
	RegisterRust(r)
	return r
}
