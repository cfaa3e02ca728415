package language

import (
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/pleme-io/codesearch/pkg/types"
)

// RegisterCPP wires the C++ grammar: free functions, classes, structs, and
// methods defined inline inside a class body.
func RegisterCPP(r *Registry) {
	r.Register(&Spec{
		Name:     "cpp",
		Language: cpp.GetLanguage(),
		Query: `
			(function_definition declarator: (function_declarator declarator: (identifier) @name)) @chunk
			(class_specifier name: (type_identifier) @name body: (_)) @chunk
			(struct_specifier name: (type_identifier) @name body: (_)) @chunk
			(enum_specifier name: (type_identifier) @name body: (_)) @chunk
		`,
		Extensions: []string{"cpp", "cc", "cxx", "hpp", "hh", "hxx"},
		KindOf: func(nodeType string) types.ChunkKind {
			switch nodeType {
			case "class_specifier":
				return types.KindClass
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
