package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/cjkfts/internal/logging"
)

// These tests load real embedded dictionaries, which takes a few seconds each.

func TestKagomeSegmenter_JapaneseCompoundSplit(t *testing.T) {
	if testing.Short() {
		t.Skip("loads IPADIC")
	}

	reg := NewRegistry(DefaultLoaders(), logging.Discard())
	seg, err := reg.Segmenter(JapaneseIPADIC)
	require.NoError(t, err)

	toks := Collect(seg.Segment("関西国際空港は大阪にあります。"))

	surfaces := make([]string, len(toks))
	for i, tok := range toks {
		surfaces[i] = tok.Surface
		// offsets always slice back to the surface
		assert.Equal(t, tok.Surface, "関西国際空港は大阪にあります。"[tok.Start:tok.End])
		assert.Equal(t, i+1, tok.Position)
	}
	assert.Contains(t, surfaces, "空港")
	assert.NotContains(t, surfaces, "。")
}

func TestKagomeSegmenter_Korean(t *testing.T) {
	if testing.Short() {
		t.Skip("loads ko-dic")
	}

	reg := NewRegistry(DefaultLoaders(), logging.Discard())
	seg, err := reg.Segmenter(Korean)
	require.NoError(t, err)

	text := "인천국제공항은 대한민국 최대의 공항입니다"
	toks := Collect(seg.Segment(text))

	require.NotEmpty(t, toks)
	for _, tok := range toks {
		assert.Equal(t, tok.Surface, text[tok.Start:tok.End])
		assert.NotContains(t, tok.Surface, " ")
	}
}

func TestGSESegmenter_Chinese(t *testing.T) {
	if testing.Short() {
		t.Skip("loads gse dictionary")
	}

	reg := NewRegistry(DefaultLoaders(), logging.Discard())
	seg, err := reg.Segmenter(Chinese)
	require.NoError(t, err)

	text := "北京首都国际机场是中国最繁忙的机场"
	toks := Collect(seg.Segment(text))

	require.NotEmpty(t, toks)
	for _, tok := range toks {
		assert.Equal(t, tok.Surface, text[tok.Start:tok.End])
	}
	assert.Contains(t, Surfaces(seg.Segment(text)), "机场")
}
