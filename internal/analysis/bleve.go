package analysis

import (
	"fmt"
	"iter"
	"unicode"

	banalysis "github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/registry"
)

// Tokenizer types registered with bleve. Index mappings declare named
// tokenizers of these types; the config travels with the persisted mapping
// so an index reopened from disk rebuilds the same analysis chain.
const (
	// MorphTokenizerType takes config {"profile": "<profile name>"}.
	MorphTokenizerType = "cjk_morph"
	// NgramTokenizerType takes config {"min": n, "max": m}.
	NgramTokenizerType = "cjk_ngram"
)

func init() {
	_ = registry.RegisterTokenizer(MorphTokenizerType, morphTokenizerConstructor)
	_ = registry.RegisterTokenizer(NgramTokenizerType, ngramTokenizerConstructor)
}

func morphTokenizerConstructor(config map[string]interface{}, _ *registry.Cache) (banalysis.Tokenizer, error) {
	name, _ := config["profile"].(string)
	p, err := ParseProfile(name)
	if err != nil {
		return nil, err
	}
	seg, err := Default().Segmenter(p)
	if err != nil {
		return nil, err
	}
	return &bleveTokenizer{tokens: seg.Segment}, nil
}

func ngramTokenizerConstructor(config map[string]interface{}, _ *registry.Cache) (banalysis.Tokenizer, error) {
	min, err := configInt(config, "min", DefaultNgramMin)
	if err != nil {
		return nil, err
	}
	max, err := configInt(config, "max", DefaultNgramMax)
	if err != nil {
		return nil, err
	}
	n, err := NewNgram(min, max)
	if err != nil {
		return nil, err
	}
	return &bleveTokenizer{tokens: n.Shingles}, nil
}

// configInt reads an integer option. Mappings built in-process carry ints,
// mappings decoded from index_meta.json carry float64.
func configInt(config map[string]interface{}, key string, def int) (int, error) {
	v, ok := config[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("tokenizer option %q must be a number, got %T", key, v)
	}
}

// bleveTokenizer adapts a token sequence to bleve's analysis.Tokenizer.
type bleveTokenizer struct {
	tokens func(string) iter.Seq[Token]
}

// Tokenize implements analysis.Tokenizer.
func (t *bleveTokenizer) Tokenize(input []byte) banalysis.TokenStream {
	result := make(banalysis.TokenStream, 0, len(input)/3+1)
	for tok := range t.tokens(string(input)) {
		result = append(result, &banalysis.Token{
			Term:     []byte(tok.Surface),
			Start:    tok.Start,
			End:      tok.End,
			Position: tok.Position,
			Type:     tokenType(tok.Surface),
		})
	}
	return result
}

func tokenType(s string) banalysis.TokenType {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hangul, unicode.Hiragana, unicode.Katakana) {
			return banalysis.Ideographic
		}
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return banalysis.AlphaNumeric
		}
	}
	return banalysis.Numeric
}
