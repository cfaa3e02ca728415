package language

import (
	"github.com/smacker/go-tree-sitter/java"

	"github.com/pleme-io/codesearch/pkg/types"
)

// RegisterJava wires the Java grammar: classes, interfaces, enums, and
// methods. Java has no free functions, so there is no function_declaration
// capture.
func RegisterJava(r *Registry) {
	r.Register(&Spec{
		Name:     "java",
		Language: java.GetLanguage(),
		Query: `
			(class_declaration name: (identifier) @name) @chunk
			(interface_declaration name: (identifier) @name) @chunk
			(enum_declaration name: (identifier) @name) @chunk
			(method_declaration name: (identifier) @name) @chunk
		`,
		Extensions: []string{"java"},
		KindOf: func(nodeType string) types.ChunkKind {
			switch nodeType {
			case "interface_declaration":
				return types.KindInterface
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
