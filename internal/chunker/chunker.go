// Package chunker turns source file bytes into types.Chunk records: one
// chunk per named declaration for languages with a registered grammar, a
// fixed sliding window of lines for everything else.
package chunker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/pleme-io/codesearch/internal/language"
	"github.com/pleme-io/codesearch/pkg/types"
)

// MaxFileBytes is the unconditional size cutoff; anything larger is skipped
// without being read into the AST parser.
const MaxFileBytes = 1 << 20 // 1 MiB

// Chunker walks a registered grammar's parse tree, or falls back to
// fixed-window line chunking when no grammar claims the file's extension.
type Chunker struct {
	registry *language.Registry
}

// New returns a Chunker backed by reg.
func New(reg *language.Registry) *Chunker {
	return &Chunker{registry: reg}
}

// Chunk parses src (the content of the file at path) and returns its
// chunks in deterministic order. Binary content and files over MaxFileBytes
// are rejected by the caller (the walker) before Chunk is ever invoked;
// Chunk itself only decides AST-vs-fallback.
func (c *Chunker) Chunk(ctx context.Context, path string, src []byte) ([]types.Chunk, error) {
	spec := c.registry.Lookup(path)
	if spec == nil {
		return fallbackChunk(path, "", src), nil
	}

	chunks, err := c.astChunk(ctx, path, spec, src)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", path, err)
	}
	if len(chunks) == 0 {
		// A file in a known language with no matching declarations (e.g. a
		// constants-only file) still gets indexed as one whole-file chunk
		// rather than silently disappearing.
		return fallbackChunk(path, spec.Name, src), nil
	}
	return chunks, nil
}

type capture struct {
	node      *sitter.Node
	nodeType  string
	name      string
	startByte uint32
	endByte   uint32
	startLine int
	endLine   int
}

func (c *Chunker) astChunk(ctx context.Context, path string, spec *language.Spec, src []byte) ([]types.Chunk, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(spec.Language)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(spec.Query), spec.Language)
	if err != nil {
		return nil, fmt.Errorf("compile query for %s: %w", spec.Name, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	var captures []capture
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		var chunkNode *sitter.Node
		var name string
		for _, cp := range m.Captures {
			switch q.CaptureNameForId(cp.Index) {
			case "chunk":
				chunkNode = cp.Node
			case "name":
				name = cp.Node.Content(src)
			}
		}
		if chunkNode == nil {
			continue
		}
		captures = append(captures, capture{
			node:      chunkNode,
			nodeType:  chunkNode.Type(),
			name:      name,
			startByte: chunkNode.StartByte(),
			endByte:   chunkNode.EndByte(),
			startLine: int(chunkNode.StartPoint().Row) + 1,
			endLine:   int(chunkNode.EndPoint().Row) + 1,
		})
	}

	// Deterministic order: by start byte, then by span size ascending, so of
	// two captures starting at the same byte the smaller (inner) one sorts
	// first.
	sort.Slice(captures, func(i, j int) bool {
		if captures[i].startByte != captures[j].startByte {
			return captures[i].startByte < captures[j].startByte
		}
		return (captures[i].endByte - captures[i].startByte) < (captures[j].endByte - captures[j].startByte)
	})

	lines := strings.Split(string(src), "\n")
	chunks := make([]types.Chunk, 0, len(captures))
	for i, cap := range captures {
		startLine, endLine := extendForLeadingComments(cap)
		kind := spec.KindOf(cap.nodeType)
		kind = refineGoKind(spec.Name, kind, lines, cap.startLine-1)
		if spec.Name == "python" && kind == types.KindFunction {
			if p := cap.node.Parent(); p != nil && p.Type() == "block" {
				if gp := p.Parent(); gp != nil && gp.Type() == "class_definition" {
					kind = types.KindMethod
				}
			}
		}

		content := joinLines(lines, startLine, endLine)
		if content == "" {
			continue
		}
		signature := extractSignature(lines, cap.startLine)
		breadcrumb := buildBreadcrumb(captures, i, kind, cap.name)

		if len(content) > maxChunkBytes {
			chunks = append(chunks, splitOversized(path, spec.Name, cap.name, startLine, content)...)
			continue
		}

		ch := types.Chunk{
			Path:       path,
			StartLine:  startLine,
			EndLine:    endLine,
			Kind:       kind,
			Name:       cap.name,
			Signature:  signature,
			Breadcrumb: breadcrumb,
			Content:    content,
			Language:   spec.Name,
		}
		ch.ComputeContentHash()
		chunks = append(chunks, ch)
	}
	return chunks, nil
}

// extendForLeadingComments walks cap.node's previous siblings while they
// are comment nodes immediately adjacent (no blank-line gap) to the
// declaration, so a docstring or a `//` header attaches to the chunk it
// documents.
func extendForLeadingComments(cap capture) (startLine, endLine int) {
	startLine, endLine = cap.startLine, cap.endLine
	n := cap.node.PrevSibling()
	for n != nil && strings.Contains(n.Type(), "comment") {
		siblingEnd := int(n.EndPoint().Row) + 1
		if siblingEnd < startLine-1 {
			break // blank line gap, comment does not belong to this declaration
		}
		startLine = int(n.StartPoint().Row) + 1
		n = n.PrevSibling()
	}
	return startLine, endLine
}

// refineGoKind distinguishes struct vs interface for Go's single
// type_declaration node type, which tree-sitter-go does not split, by
// sniffing the declaration's own header line.
func refineGoKind(lang string, kind types.ChunkKind, lines []string, headerLineIdx int) types.ChunkKind {
	if lang != "go" || kind != types.KindStruct {
		return kind
	}
	if headerLineIdx < 0 || headerLineIdx >= len(lines) {
		return kind
	}
	line := lines[headerLineIdx]
	if strings.Contains(line, "interface") {
		return types.KindInterface
	}
	return types.KindStruct
}

func joinLines(lines []string, startLine, endLine int) string {
	start := startLine - 1
	end := endLine
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

// extractSignature returns the declaration's header line, whitespace
// normalized: consecutive runs of spaces/tabs collapsed to one space, and
// the opening-brace body dropped.
func extractSignature(lines []string, startLine int) string {
	idx := startLine - 1
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	line := lines[idx]
	if i := strings.IndexByte(line, '{'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	return strings.Join(fields, " ")
}

// buildBreadcrumb finds every earlier capture whose span strictly contains
// captures[i]'s span and joins their kind+name in outer-to-inner order,
// ending with the chunk's own kind+name, e.g.
// "mod auth :: impl Handler :: fn authenticate".
func buildBreadcrumb(captures []capture, i int, kind types.ChunkKind, name string) string {
	self := captures[i]
	var ancestors []capture
	for j, other := range captures {
		if j == i {
			continue
		}
		if other.startByte <= self.startByte && other.endByte >= self.endByte &&
			(other.startByte != self.startByte || other.endByte != self.endByte) {
			ancestors = append(ancestors, other)
		}
	}
	sort.Slice(ancestors, func(a, b int) bool {
		return (ancestors[a].endByte - ancestors[a].startByte) > (ancestors[b].endByte - ancestors[b].startByte)
	})

	parts := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		parts = append(parts, crumbWord(a.nodeType)+" "+a.name)
	}
	parts = append(parts, crumbWord(string(kind))+" "+name)
	return strings.Join(parts, " :: ")
}

func crumbWord(kindOrType string) string {
	switch {
	case strings.Contains(kindOrType, "method"):
		return "fn"
	case strings.Contains(kindOrType, "function"):
		return "fn"
	case strings.Contains(kindOrType, "class"):
		return "class"
	case strings.Contains(kindOrType, "struct"):
		return "struct"
	case strings.Contains(kindOrType, "interface") || strings.Contains(kindOrType, "trait"):
		return "trait"
	case strings.Contains(kindOrType, "enum"):
		return "enum"
	case strings.Contains(kindOrType, "impl"):
		return "impl"
	case strings.Contains(kindOrType, "module") || strings.Contains(kindOrType, "mod"):
		return "mod"
	default:
		return kindOrType
	}
}

const maxChunkBytes = 8192

// splitOversized breaks a chunk whose content exceeds maxChunkBytes into
// 40-line windows with 10-line overlap, the same policy the fallback
// chunker uses, so no single chunk ever blows the embedder's per-text
// budget.
func splitOversized(path, lang, name string, baseStartLine int, content string) []types.Chunk {
	lines := strings.Split(content, "\n")
	var out []types.Chunk
	for i := 0; i < len(lines); {
		end := i + windowSize
		if end > len(lines) {
			end = len(lines)
		}
		piece := strings.Join(lines[i:end], "\n")
		ch := types.Chunk{
			Path:      path,
			StartLine: baseStartLine + i,
			EndLine:   baseStartLine + end - 1,
			Kind:      types.KindBlock,
			Name:      name,
			Content:   piece,
			Language:  lang,
		}
		ch.ComputeContentHash()
		out = append(out, ch)
		if end >= len(lines) {
			break
		}
		i += windowSize - overlap
	}
	return out
}
