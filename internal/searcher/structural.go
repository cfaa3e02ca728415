package searcher

import (
	"regexp"
	"strings"

	"github.com/pleme-io/codesearch/pkg/types"
)

// structuralKeywords maps a recognized structural keyword to the chunk
// kind it names.
var structuralKeywords = map[string]types.ChunkKind{
	"interface": types.KindInterface,
	"trait":     types.KindInterface,
	"struct":    types.KindStruct,
	"class":     types.KindClass,
	"enum":      types.KindEnum,
	"method":    types.KindMethod,
	"function":  types.KindFunction,
}

// kindPrecedence orders kinds from most to least specific for the
// tie-break when a query names more than one structural keyword: a lower
// number wins.
var kindPrecedence = map[types.ChunkKind]int{
	types.KindInterface: 0,
	types.KindStruct:    1,
	types.KindClass:     1,
	types.KindEnum:      2,
	types.KindMethod:    3,
	types.KindFunction:  4,
}

var (
	pascalCaseRe = regexp.MustCompile(`^[A-Z][a-z0-9]+(?:[A-Z][a-zA-Z0-9]*)*$`)
	snakeCaseRe  = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)+$`)
)

const wordTrim = ".,!?;:()[]{}\"'"

// detectStructural reports whether query carries structural intent: a
// recognized structural keyword together with a PascalCase or snake_case
// identifier. When more than one keyword is present, the most specific
// kind wins per kindPrecedence.
func detectStructural(query string) (bool, types.ChunkKind) {
	var found []types.ChunkKind
	hasIdentifier := false

	for _, word := range strings.Fields(query) {
		trimmed := strings.Trim(word, wordTrim)
		if trimmed == "" {
			continue
		}
		if kind, ok := structuralKeywords[strings.ToLower(trimmed)]; ok {
			found = append(found, kind)
		}
		if isPascalCase(trimmed) || isSnakeCase(trimmed) {
			hasIdentifier = true
		}
	}

	if len(found) == 0 || !hasIdentifier {
		return false, ""
	}

	best := found[0]
	for _, k := range found[1:] {
		if kindPrecedence[k] < kindPrecedence[best] {
			best = k
		}
	}
	return true, best
}

func isPascalCase(s string) bool { return pascalCaseRe.MatchString(s) }
func isSnakeCase(s string) bool  { return snakeCaseRe.MatchString(s) }
