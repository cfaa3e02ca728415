package ftstore

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// fieldWeights are the per-field BM25 combination weights named by the
// full-text store's scoring model: name counts for more than signature,
// which counts for more than breadcrumb, content, and path in turn.
var fieldWeights = map[string]float64{
	"name":       4,
	"signature":  3,
	"breadcrumb": 2,
	"content":    1,
	"path":       0.5,
}

// buildIndexMapping constructs the chunk document mapping: content uses
// bleve's built-in English analyzer (stemmed), the identifier-shaped
// fields use the camelCase/snake_case-aware "identifier" analyzer with no
// stemming, and language/kind are unanalyzed keyword fields used for the
// kind-intersection MUST constraint.
func buildIndexMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	if err := registerIdentifierAnalyzer(im); err != nil {
		return nil, err
	}

	doc := bleve.NewDocumentMapping()

	content := bleve.NewTextFieldMapping()
	content.Analyzer = "en"
	content.Store = false
	content.IncludeInAll = false
	doc.AddFieldMappingsAt("content", content)

	for _, field := range []string{"name", "signature", "breadcrumb", "path"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = IdentifierAnalyzerName
		fm.Store = false
		fm.IncludeInAll = false
		doc.AddFieldMappingsAt(field, fm)
	}

	kind := bleve.NewKeywordFieldMapping()
	kind.Store = false
	kind.IncludeInAll = false
	doc.AddFieldMappingsAt("kind", kind)

	language := bleve.NewKeywordFieldMapping()
	language.Store = false
	language.IncludeInAll = false
	doc.AddFieldMappingsAt("language", language)

	im.DefaultMapping = doc
	im.DefaultAnalyzer = IdentifierAnalyzerName
	return im, nil
}
