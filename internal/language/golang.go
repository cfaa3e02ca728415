package language

import (
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/pleme-io/codesearch/pkg/types"
)

// RegisterGo wires the Go grammar: functions, methods, and type declarations
// (struct/interface/other named types all arrive as type_declaration; the
// chunker refines the kind at chunk build time by checking whether the
// declaration's header line contains "interface", since tree-sitter-go does
// not give struct and interface distinct top-level node types).
func RegisterGo(r *Registry) {
	r.Register(&Spec{
		Name:     "go",
		Language: golang.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @chunk
			(method_declaration name: (field_identifier) @name) @chunk
			(type_declaration (type_spec name: (type_identifier) @name)) @chunk
		`,
		Extensions: []string{"go"},
		KindOf: func(nodeType string) types.ChunkKind {
			switch nodeType {
			case "method_declaration":
				return types.KindMethod
			case "type_declaration":
				return types.KindStruct
			default:
				return types.KindFunction
			}
		},
	})
}
