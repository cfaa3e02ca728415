package language

import (
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/pleme-io/codesearch/pkg/types"
)

// RegisterRust wires the Rust grammar: functions, structs, traits, enums,
// and impl blocks. Methods inside an impl block arrive as their own
// function_item capture; the chunker's breadcrumb construction is what
// distinguishes a free function from a method by recording the enclosing
// impl_item.
func RegisterRust(r *Registry) {
	r.Register(&Spec{
		Name:     "rust",
		Language: rust.GetLanguage(),
		Query: `
			(function_item name: (identifier) @name) @chunk
			(struct_item name: (type_identifier) @name) @chunk
			(trait_item name: (type_identifier) @name) @chunk
			(enum_item name: (type_identifier) @name) @chunk
			(impl_item type: (type_identifier) @name) @chunk
		`,
		Extensions: []string{"rs"},
		KindOf: func(nodeType string) types.ChunkKind {
			switch nodeType {
			case "struct_item":
				return types.KindStruct
			case "trait_item":
				return types.KindInterface
			case "enum_item":
				return types.KindEnum
			case "impl_item":
				return types.KindImpl
			default:
				return types.KindFunction
			}
		},
	})
}
