// Package chunker divides source files into semantically meaningful chunks
// for embedding and search.
//
// For a file whose extension matches a registered language (see
// internal/language), the chunker walks the tree-sitter parse tree and
// emits one chunk per named declaration: functions, methods, classes,
// structs, interfaces, enums, and impl/trait blocks. A nested declaration
// (a method inside an impl block, a function inside a module) produces its
// own chunk in addition to the chunk covering its enclosing declaration;
// the two chunks overlap rather than one replacing the other.
//
// Files in an unrecognized language, or files in a known language with no
// matching declarations, fall back to fixed windows of 40 lines with a
// 10-line overlap, tagged types.KindBlock; a file short enough to fit in
// one window still gets a single types.KindBlock chunk spanning it. The
// same window policy caps any individual AST chunk that would otherwise
// exceed the chunker's byte budget.
package chunker
