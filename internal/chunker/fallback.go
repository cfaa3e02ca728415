package chunker

import (
	"strings"

	"github.com/pleme-io/codesearch/pkg/types"
)

// windowSize and overlap are the fallback sliding-window policy applied to
// files with no registered grammar, and reused by splitOversized to cap any
// single AST chunk's size.
const (
	windowSize = 40
	overlap    = 10
)

// fallbackChunk splits src into windowSize-line windows with overlap lines
// of overlap, each tagged types.KindBlock. lang is the registry's language
// name if one matched but produced no declarations, or "" for a completely
// unrecognized extension. A file short enough to fit in one window still
// becomes a single types.KindBlock chunk spanning the whole file.
func fallbackChunk(path, lang string, src []byte) []types.Chunk {
	text := strings.TrimRight(string(src), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")

	if len(lines) <= windowSize {
		ch := types.Chunk{
			Path:      path,
			StartLine: 1,
			EndLine:   len(lines),
			Kind:      types.KindBlock,
			Name:      path,
			Content:   text,
			Language:  lang,
		}
		ch.ComputeContentHash()
		return []types.Chunk{ch}
	}

	var out []types.Chunk
	for i := 0; i < len(lines); {
		end := i + windowSize
		if end > len(lines) {
			end = len(lines)
		}
		piece := strings.Join(lines[i:end], "\n")
		ch := types.Chunk{
			Path:      path,
			StartLine: i + 1,
			EndLine:   end,
			Kind:      types.KindBlock,
			Name:      path,
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
