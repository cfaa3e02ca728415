package ftstore

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/registry"
)

// identifierExpandFilterType is the registry name for the token filter
// constructor; identifierExpandFilterName is the instance name used when
// wiring it into the "identifier" custom analyzer below.
const (
	identifierExpandFilterType = "identifierExpand"
	identifierExpandFilterName = "identifierExpand"

	// IdentifierAnalyzerName is the analyzer used for code-identifier
	// fields (name, signature, breadcrumb, path): non-alphanumeric
	// tokenization, lowercasing, and no stemming, with camelCase/snake_case
	// compounds expanded into their parts alongside the original token.
	IdentifierAnalyzerName = "identifier"
)

func init() {
	registry.RegisterTokenFilter(identifierExpandFilterType, func(_ map[string]interface{}, _ *registry.Cache) (analysis.TokenFilter, error) {
		return &identifierExpandFilter{}, nil
	})
}

// registerIdentifierAnalyzer wires the "identifier" analyzer into m. Called
// once per IndexMapping construction.
func registerIdentifierAnalyzer(m addCustomizer) error {
	if err := m.AddCustomTokenFilter(identifierExpandFilterName, map[string]interface{}{
		"type": identifierExpandFilterType,
	}); err != nil {
		return err
	}
	return m.AddCustomAnalyzer(IdentifierAnalyzerName, map[string]interface{}{
		"type":          "custom",
		"tokenizer":     "unicode",
		"token_filters": []string{identifierExpandFilterName, "to_lower"},
	})
}

// addCustomizer is the subset of *mapping.IndexMappingImpl used to register
// custom analysis components, narrowed so this file doesn't need the
// mapping package import just for the type name.
type addCustomizer interface {
	AddCustomTokenFilter(name string, config map[string]interface{}) error
	AddCustomAnalyzer(name string, config map[string]interface{}) error
}

// identifierExpandFilter keeps every incoming token and additionally emits
// its camelCase/snake_case parts at the same token position, so a query for
// "authenticate" matches a token stream built from "authenticateUser" or
// "authenticate_user" without losing the ability to match the compound
// identifier as a whole.
type identifierExpandFilter struct{}

func (f *identifierExpandFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	output := make(analysis.TokenStream, 0, len(input))
	for _, tok := range input {
		output = append(output, tok)
		for _, part := range splitIdentifier(string(tok.Term)) {
			if len(part) == 0 || strings.EqualFold(part, string(tok.Term)) {
				continue
			}
			output = append(output, &analysis.Token{
				Term:     bytes.ToLower([]byte(part)),
				Start:    tok.Start,
				End:      tok.End,
				Position: tok.Position,
				Type:     tok.Type,
			})
		}
	}
	return output
}

// splitIdentifier breaks term on '_'/'-' and on camelCase boundaries
// (lower-to-upper and letter-to-digit transitions), returning the
// component parts in order.
func splitIdentifier(term string) []string {
	var parts []string
	var cur []rune
	runes := []rune(term)

	flush := func() {
		if len(cur) > 0 {
			parts = append(parts, string(cur))
			cur = nil
		}
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			flush()
		case i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]):
			flush()
			cur = append(cur, r)
		case i > 0 && unicode.IsDigit(r) != unicode.IsDigit(runes[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return parts
}
