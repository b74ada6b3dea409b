package analysis

import (
	"fmt"
	"iter"

	"github.com/go-ego/gse"
	ko "github.com/ikawaha/kagome-dict-ko"
	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Loader builds the Segmenter for one profile. Loading a dictionary is
// expensive, so the Registry calls each loader at most once.
type Loader func() (Segmenter, error)

// DefaultLoaders returns the built-in loader for every profile.
func DefaultLoaders() map[Profile]Loader {
	return map[Profile]Loader{
		Korean:         kagomeLoader(ko.Dict),
		JapaneseIPADIC: kagomeLoader(ipa.Dict),
		JapaneseUniDic: kagomeLoader(uni.Dict),
		Chinese:        loadGSE,
	}
}

// kagomeSegmenter runs kagome in search mode, which splits compound nouns
// such as 関西国際空港 into their parts.
type kagomeSegmenter struct {
	t *tokenizer.Tokenizer
}

func kagomeLoader(load func() *dict.Dict) Loader {
	return func() (seg Segmenter, err error) {
		// embedded dictionaries panic when their archive cannot be decoded
		defer func() {
			if r := recover(); r != nil {
				seg, err = nil, fmt.Errorf("dictionary panicked while loading: %v", r)
			}
		}()

		d := load()
		if d == nil {
			return nil, fmt.Errorf("dictionary is empty")
		}
		t, err := tokenizer.New(d, tokenizer.OmitBosEos())
		if err != nil {
			return nil, err
		}
		return &kagomeSegmenter{t: t}, nil
	}
}

func (s *kagomeSegmenter) Segment(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		pos := 0
		for _, tok := range s.t.Analyze(text, tokenizer.Search) {
			if tok.Class == tokenizer.DUMMY || !meaningful(tok.Surface) {
				continue
			}
			pos++
			if !yield(Token{
				Surface:  tok.Surface,
				Start:    tok.Position,
				End:      tok.Position + len(tok.Surface),
				Position: pos,
			}) {
				return
			}
		}
	}
}

// gseSegmenter wraps the gse Chinese segmenter.
type gseSegmenter struct {
	seg *gse.Segmenter
}

func loadGSE() (Segmenter, error) {
	seg := new(gse.Segmenter)
	if err := seg.LoadDictEmbed(); err != nil {
		return nil, err
	}
	return &gseSegmenter{seg: seg}, nil
}

func (s *gseSegmenter) Segment(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		pos := 0
		for _, sg := range s.seg.Segment([]byte(text)) {
			surface := text[sg.Start():sg.End()]
			if !meaningful(surface) {
				continue
			}
			pos++
			if !yield(Token{
				Surface:  surface,
				Start:    sg.Start(),
				End:      sg.End(),
				Position: pos,
			}) {
				return
			}
		}
	}
}
