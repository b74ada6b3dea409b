// Package analysis turns CJK text into index terms.
//
// Two strategies feed every document: a morphological Segmenter chosen by the
// index's Profile, and a profile-independent character n-gram tokenizer that
// makes partial and substring matches possible. Both are exposed to bleve as
// registered tokenizer types so that index mappings can name them.
package analysis

import (
	"iter"
	"unicode"
)

// Token is one term produced by a tokenizer.
type Token struct {
	// Surface is the term text as it appears in the input.
	Surface string
	// Start and End are byte offsets into the input.
	Start int
	End   int
	// Position is the 1-based ordinal of the token in the stream.
	Position int
}

// Segmenter splits text into morphological units.
//
// Implementations must be safe for concurrent use. The returned sequence is
// finite and yields tokens in input order; tokens without any letter or digit
// are omitted.
type Segmenter interface {
	Segment(text string) iter.Seq[Token]
}

// SegmenterFunc adapts a function to the Segmenter interface.
type SegmenterFunc func(text string) iter.Seq[Token]

// Segment calls f.
func (f SegmenterFunc) Segment(text string) iter.Seq[Token] {
	return f(text)
}

// meaningful reports whether s holds at least one letter or digit.
func meaningful(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}

// Collect drains a token sequence into a slice.
func Collect(seq iter.Seq[Token]) []Token {
	var out []Token
	for tok := range seq {
		out = append(out, tok)
	}
	return out
}

// Surfaces returns the surface text of each token in seq.
func Surfaces(seq iter.Seq[Token]) []string {
	var out []string
	for tok := range seq {
		out = append(out, tok.Surface)
	}
	return out
}
