package language

import (
	"github.com/smacker/go-tree-sitter/python"

	"github.com/pleme-io/codesearch/pkg/types"
)

// RegisterPython wires the Python grammar: top-level and nested function and
// class definitions. tree-sitter-python does not distinguish a method from
// a free function at the grammar level; the chunker promotes a
// function_definition nested directly under a class_definition to
// types.KindMethod when it builds the chunk.
func RegisterPython(r *Registry) {
	r.Register(&Spec{
		Name:     "python",
		Language: python.GetLanguage(),
		Query: `
			(function_definition name: (identifier) @name) @chunk
			(class_definition name: (identifier) @name) @chunk
		`,
		Extensions: []string{"py", "pyi"},
		KindOf: func(nodeType string) types.ChunkKind {
			if nodeType == "class_definition" {
				return types.KindClass
			}
			return types.KindFunction
		},
	})
}
