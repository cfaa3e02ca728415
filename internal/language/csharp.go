package language

import (
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/pleme-io/codesearch/pkg/types"
)

// RegisterCSharp wires the C# grammar: classes, interfaces, structs, enums,
// and methods.
func RegisterCSharp(r *Registry) {
	r.Register(&Spec{
		Name:     "csharp",
		Language: csharp.GetLanguage(),
		Query: `
			(class_declaration name: (identifier) @name) @chunk
			(interface_declaration name: (identifier) @name) @chunk
			(struct_declaration name: (identifier) @name) @chunk
			(enum_declaration name: (identifier) @name) @chunk
			(method_declaration name: (identifier) @name) @chunk
		`,
		Extensions: []string{"cs"},
		KindOf: func(nodeType string) types.ChunkKind {
			switch nodeType {
			case "interface_declaration":
				return types.KindInterface
			case "struct_declaration":
				return types.KindStruct
			case "enum_declaration":
				return types.KindEnum
			case "method_declaration":
				return types.KindMethod
			default:
				return types.KindClass
			}
		},
	})
}
