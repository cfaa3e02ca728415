package language

import (
	"github.com/smacker/go-tree-sitter/c"

	"github.com/pleme-io/codesearch/pkg/types"
)

// RegisterC wires the C grammar: function definitions and struct/enum/union
// specifiers named at the top level. C has no classes or methods.
func RegisterC(r *Registry) {
	r.Register(&Spec{
		Name:     "c",
		Language: c.GetLanguage(),
		Query: `
			(function_definition declarator: (function_declarator declarator: (identifier) @name)) @chunk
			(struct_specifier name: (type_identifier) @name body: (_)) @chunk
			(enum_specifier name: (type_identifier) @name body: (_)) @chunk
		`,
		Extensions: []string{"c", "h"},
		KindOf: func(nodeType string) types.ChunkKind {
			switch nodeType {
			case "struct_specifier":
				return types.KindStruct
			case "enum_specifier":
				return types.KindEnum
			default:
				return types.KindFunction
			}
		},
	})
}
