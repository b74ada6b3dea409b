package analysis

import (
	"fmt"
	"iter"
	"unicode/utf8"
)

// Default n-gram bounds. Bigrams catch two-syllable Korean nouns and most
// Chinese words, trigrams sharpen ranking for longer substrings.
const (
	DefaultNgramMin = 2
	DefaultNgramMax = 3
)

// Ngram emits every contiguous run of Min..Max characters of its input.
//
// Grams are taken at every character boundary, whitespace included, so
// "인천 공항" yields "천 " and " 공" as well. All grams starting at the same
// character share a Position (the 1-based character index), which keeps
// phrase queries over n-gram fields aligned between documents and queries.
type Ngram struct {
	Min int
	Max int
}

// NewNgram validates the bounds and returns the tokenizer.
func NewNgram(min, max int) (Ngram, error) {
	if min < 1 {
		return Ngram{}, fmt.Errorf("ngram min must be >= 1, got %d", min)
	}
	if max < min {
		return Ngram{}, fmt.Errorf("ngram max (%d) must be >= min (%d)", max, min)
	}
	return Ngram{Min: min, Max: max}, nil
}

// DefaultNgram returns the 2..3 character tokenizer used by the n-gram fields.
func DefaultNgram() Ngram {
	return Ngram{Min: DefaultNgramMin, Max: DefaultNgramMax}
}

// Shingles yields the grams of text ordered by start offset, then length.
// Input shorter than Min yields nothing.
func (n Ngram) Shingles(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		// byte offset of every rune boundary, plus len(text)
		bounds := make([]int, 0, len(text)+1)
		for i := range text {
			bounds = append(bounds, i)
		}
		runes := len(bounds)
		bounds = append(bounds, len(text))

		for start := 0; start < runes; start++ {
			for size := n.Min; size <= n.Max && start+size <= runes; size++ {
				s, e := bounds[start], bounds[start+size]
				if !yield(Token{
					Surface:  text[s:e],
					Start:    s,
					End:      e,
					Position: start + 1,
				}) {
					return
				}
			}
		}
	}
}

// Count returns how many grams Shingles yields for text without producing them.
func (n Ngram) Count(text string) int {
	runes := utf8.RuneCountInString(text)
	total := 0
	for size := n.Min; size <= n.Max; size++ {
		if runes >= size {
			total += runes - size + 1
		}
	}
	return total
}
