package language

import (
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/pleme-io/codesearch/pkg/types"
)

// RegisterTypeScript wires the TypeScript grammar, adding interface and
// enum declarations on top of the JavaScript shapes since TypeScript's
// grammar is a superset of JavaScript's for these purposes.
func RegisterTypeScript(r *Registry) {
	r.Register(&Spec{
		Name:     "typescript",
		Language: typescript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @chunk
			(class_declaration name: (type_identifier) @name) @chunk
			(method_definition name: (property_identifier) @name) @chunk
			(interface_declaration name: (type_identifier) @name) @chunk
			(enum_declaration name: (identifier) @name) @chunk
		`,
		Extensions: []string{"ts", "tsx"},
		KindOf: func(nodeType string) types.ChunkKind {
			switch nodeType {
			case "class_declaration":
				return types.KindClass
			case "method_definition":
				return types.KindMethod
			case "interface_declaration":
				return types.KindInterface
			case "enum_declaration":
				return types.KindEnum
			default:
				return types.KindFunction
			}
		},
	})
}
