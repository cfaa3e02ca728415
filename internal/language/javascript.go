package language

import (
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/pleme-io/codesearch/pkg/types"
)

// RegisterJavaScript wires the JavaScript/JSX grammar: function
// declarations, class declarations, and methods inside a class body.
func RegisterJavaScript(r *Registry) {
	r.Register(&Spec{
		Name:     "javascript",
		Language: javascript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @chunk
			(class_declaration name: (identifier) @name) @chunk
			(method_definition name: (property_identifier) @name) @chunk
		`,
		Extensions: []string{"js", "jsx", "mjs", "cjs"},
		KindOf: func(nodeType string) types.ChunkKind {
			switch nodeType {
			case "class_declaration":
				return types.KindClass
			case "method_definition":
				return types.KindMethod
			default:
				return types.KindFunction
			}
		},
	})
}
