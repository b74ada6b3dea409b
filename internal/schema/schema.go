// Package schema defines the fixed field layout of a cjkfts index and builds
// the bleve index mapping for a language profile.
//
// Every document carries its title and body twice: once analyzed by the
// profile's morphological tokenizer and once by the 2..3 character n-gram
// tokenizer. Queries search all four text fields together.
package schema

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/Aman-CERP/cjkfts/internal/analysis"
	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
)

// Field names. They are persisted in every index and must not change.
const (
	FieldID           = "id"
	FieldTitle        = "title"
	FieldBody         = "body"
	FieldTitleNgram   = "title_ngram"
	FieldBodyNgram    = "body_ngram"
	FieldMetadata     = "metadata"
	FieldMetadataJSON = "metadata_json"
)

// Version is bumped whenever the field layout changes incompatibly.
const Version = 1

// Analysis component names used inside the mapping.
const (
	NgramTokenizerName = "ngram_tokenizer"
	NgramAnalyzerName  = "ngram_analyzer"
)

// MorphAnalyzerName returns the analyzer applied to title and body for p.
func MorphAnalyzerName(p analysis.Profile) string {
	return p.TokenizerName() + "_analyzer"
}

// SearchFields are the fields an unqualified query term is matched against.
func SearchFields() []string {
	return []string{FieldTitle, FieldBody, FieldTitleNgram, FieldBodyNgram}
}

// StoredFields are the fields requested back with search hits.
func StoredFields() []string {
	return []string{FieldID, FieldTitle, FieldBody, FieldMetadataJSON}
}

// Build returns the index mapping for profile p. Building it instantiates the
// profile's tokenizer, so a dictionary that cannot be loaded fails here with
// ErrCodeDictionaryLoad.
func Build(p analysis.Profile) (*mapping.IndexMappingImpl, error) {
	if !p.Valid() {
		return nil, cerrors.New(cerrors.ErrCodeInvalidProfile, fmt.Sprintf("invalid language profile %s", p), nil)
	}
	// Bleve flattens tokenizer construction errors into strings, so the
	// dictionary is loaded here to keep its error code intact.
	if _, err := analysis.Default().Segmenter(p); err != nil {
		return nil, err
	}

	im := mapping.NewIndexMapping()

	if err := im.AddCustomTokenizer(p.TokenizerName(), map[string]interface{}{
		"type":    analysis.MorphTokenizerType,
		"profile": p.String(),
	}); err != nil {
		return nil, analyzerError(p.TokenizerName(), err)
	}
	if err := im.AddCustomTokenizer(NgramTokenizerName, map[string]interface{}{
		"type": analysis.NgramTokenizerType,
		"min":  analysis.DefaultNgramMin,
		"max":  analysis.DefaultNgramMax,
	}); err != nil {
		return nil, analyzerError(NgramTokenizerName, err)
	}

	if err := im.AddCustomAnalyzer(MorphAnalyzerName(p), map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     p.TokenizerName(),
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		return nil, analyzerError(MorphAnalyzerName(p), err)
	}
	if err := im.AddCustomAnalyzer(NgramAnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     NgramTokenizerName,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		return nil, analyzerError(NgramAnalyzerName, err)
	}

	im.DefaultAnalyzer = keyword.Name
	im.StoreDynamic = false
	im.IndexDynamic = true
	im.DocValuesDynamic = false
	im.DefaultMapping = buildDocumentMapping(p)

	return im, nil
}

func buildDocumentMapping(p analysis.Profile) *mapping.DocumentMapping {
	doc := mapping.NewDocumentMapping()
	doc.Dynamic = false

	doc.AddFieldMappingsAt(FieldID, buildIDField())
	doc.AddFieldMappingsAt(FieldTitle, buildTextField(MorphAnalyzerName(p)))
	doc.AddFieldMappingsAt(FieldBody, buildTextField(MorphAnalyzerName(p)))
	doc.AddFieldMappingsAt(FieldTitleNgram, buildTextField(NgramAnalyzerName))
	doc.AddFieldMappingsAt(FieldBodyNgram, buildTextField(NgramAnalyzerName))
	doc.AddFieldMappingsAt(FieldMetadataJSON, buildStoredOnlyField())
	doc.AddSubDocumentMapping(FieldMetadata, buildMetadataMapping())

	return doc
}

// buildIDField is exact-match only: one term per document, no positions.
func buildIDField() *mapping.FieldMapping {
	fm := mapping.NewTextFieldMapping()
	fm.Analyzer = keyword.Name
	fm.Store = true
	fm.Index = true
	fm.IncludeTermVectors = false
	fm.IncludeInAll = false
	return fm
}

// buildTextField is ranked free text with positions for phrase queries.
func buildTextField(analyzer string) *mapping.FieldMapping {
	fm := mapping.NewTextFieldMapping()
	fm.Analyzer = analyzer
	fm.Store = true
	fm.Index = true
	fm.IncludeTermVectors = true
	fm.IncludeInAll = false
	fm.DocValues = false
	return fm
}

// buildStoredOnlyField keeps the raw metadata JSON for projection.
func buildStoredOnlyField() *mapping.FieldMapping {
	fm := mapping.NewTextFieldMapping()
	fm.Store = true
	fm.Index = false
	fm.IncludeTermVectors = false
	fm.IncludeInAll = false
	fm.DocValues = false
	return fm
}

// buildMetadataMapping indexes every metadata leaf under metadata.<path> as an
// exact keyword or number so it can be filtered on, e.g. +metadata.iata:ICN.
// Booleans arrive as the keywords "true" and "false". Objects inside arrays
// share their path, so {"gates":[{"id":"A1"}]} matches metadata.gates.id:A1
// without tying sibling leaves of one element together. Leaves are not
// ranked text.
func buildMetadataMapping() *mapping.DocumentMapping {
	meta := mapping.NewDocumentMapping()
	meta.Dynamic = true
	meta.DefaultAnalyzer = keyword.Name
	return meta
}

func analyzerError(name string, err error) error {
	if cerrors.HasCode(err, cerrors.ErrCodeDictionaryLoad) {
		return err
	}
	return cerrors.New(cerrors.ErrCodeAnalyzerInvalid, fmt.Sprintf("failed to define %s", name), err)
}

// Validate checks that a mapping read back from disk analyzes every field the
// way profile p expects. A mismatch means the index was built for a different
// profile or by an incompatible layout.
func Validate(m mapping.IndexMapping, p analysis.Profile) error {
	want := map[string]string{
		FieldID:         keyword.Name,
		FieldTitle:      MorphAnalyzerName(p),
		FieldBody:       MorphAnalyzerName(p),
		FieldTitleNgram: NgramAnalyzerName,
		FieldBodyNgram:  NgramAnalyzerName,
	}
	for _, field := range []string{FieldID, FieldTitle, FieldBody, FieldTitleNgram, FieldBodyNgram} {
		if got := m.AnalyzerNameForPath(field); got != want[field] {
			return cerrors.New(cerrors.ErrCodeSchemaMismatch,
				fmt.Sprintf("field %q uses analyzer %q, profile %s expects %q", field, got, p, want[field]), nil).
				WithDetail("field", field).
				WithSuggestion("open the index with the profile it was created with, or clear the directory")
		}
	}
	return nil
}

// DetectProfile infers the profile an on-disk mapping was built for.
func DetectProfile(m mapping.IndexMapping) (analysis.Profile, error) {
	got := m.AnalyzerNameForPath(FieldTitle)
	for _, p := range analysis.Profiles() {
		if got == MorphAnalyzerName(p) {
			return p, nil
		}
	}
	return 0, cerrors.New(cerrors.ErrCodeSchemaMismatch,
		fmt.Sprintf("title analyzer %q does not belong to any language profile", got), nil)
}
