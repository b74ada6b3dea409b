// Package analysistest provides dictionary-free segmenters for tests.
package analysistest

import (
	"iter"
	"testing"
	"unicode"

	"github.com/Aman-CERP/cjkfts/internal/analysis"
	"github.com/Aman-CERP/cjkfts/internal/logging"
)

// Whitespace splits text on whitespace and punctuation. It stands in for a
// morphological segmenter when a test does not care about dictionary output.
var Whitespace = analysis.SegmenterFunc(func(text string) iter.Seq[analysis.Token] {
	return func(yield func(analysis.Token) bool) {
		pos, start := 0, -1
		emit := func(end int) bool {
			if start < 0 {
				return true
			}
			pos++
			tok := analysis.Token{Surface: text[start:end], Start: start, End: end, Position: pos}
			start = -1
			return yield(tok)
		}
		for i, r := range text {
			if unicode.IsSpace(r) || unicode.IsPunct(r) {
				if !emit(i) {
					return
				}
				continue
			}
			if start < 0 {
				start = i
			}
		}
		emit(len(text))
	}
})

// Registry returns a registry serving Whitespace for every profile.
func Registry() *analysis.Registry {
	loaders := make(map[analysis.Profile]analysis.Loader)
	for _, p := range analysis.Profiles() {
		loaders[p] = func() (analysis.Segmenter, error) { return Whitespace, nil }
	}
	return analysis.NewRegistry(loaders, logging.Discard())
}

// Install makes Registry the process default for the duration of t.
func Install(t testing.TB) {
	t.Helper()
	restore := analysis.SetDefault(Registry())
	t.Cleanup(restore)
}

// Fields is a convenience for asserting on segmenter output.
func Fields(seg analysis.Segmenter, text string) []string {
	return analysis.Surfaces(seg.Segment(text))
}
