package analysis

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
	"github.com/Aman-CERP/cjkfts/internal/logging"
)

// whitespaceSegmenter splits on spaces; it stands in for a dictionary in tests.
var whitespaceSegmenter = SegmenterFunc(func(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		pos, offset := 0, 0
		for _, field := range strings.Fields(text) {
			start := strings.Index(text[offset:], field) + offset
			offset = start + len(field)
			pos++
			if !yield(Token{Surface: field, Start: start, End: offset, Position: pos}) {
				return
			}
		}
	}
})

func TestRegistry_LoadsOncePerProfile(t *testing.T) {
	// Given: a loader that counts invocations
	var calls atomic.Int32
	reg := NewRegistry(map[Profile]Loader{
		Korean: func() (Segmenter, error) {
			calls.Add(1)
			return whitespaceSegmenter, nil
		},
	}, logging.Discard())

	// When: many goroutines ask for the segmenter at once
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seg, err := reg.Segmenter(Korean)
			assert.NoError(t, err)
			assert.NotNil(t, seg)
		}()
	}
	wg.Wait()

	// Then: the dictionary was loaded exactly once and is cached
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, reg.Loaded(Korean))
	assert.False(t, reg.Loaded(Chinese))
}

func TestRegistry_LoadFailureIsCodedAndNotCached(t *testing.T) {
	// Given: a loader that fails once, then succeeds
	var calls atomic.Int32
	reg := NewRegistry(map[Profile]Loader{
		Chinese: func() (Segmenter, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("archive truncated")
			}
			return whitespaceSegmenter, nil
		},
	}, logging.Discard())

	// When: the first load fails
	_, err := reg.Segmenter(Chinese)

	// Then: the error is a dictionary load error that keeps its cause
	require.Error(t, err)
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeDictionaryLoad))
	assert.Contains(t, err.Error(), "cc-cedict")
	assert.False(t, reg.Loaded(Chinese))

	// And: a retry succeeds
	_, err = reg.Segmenter(Chinese)
	require.NoError(t, err)
	assert.True(t, reg.Loaded(Chinese))
}

func TestRegistry_MissingLoader(t *testing.T) {
	reg := NewRegistry(nil, logging.Discard())

	_, err := reg.Segmenter(JapaneseUniDic)

	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeDictionaryLoad))
}

func TestRegistry_InvalidProfile(t *testing.T) {
	reg := NewRegistry(DefaultLoaders(), logging.Discard())

	_, err := reg.Segmenter(Profile(99))

	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeInvalidProfile))
}

func TestRegistry_Preload(t *testing.T) {
	ok := func() (Segmenter, error) { return whitespaceSegmenter, nil }
	reg := NewRegistry(map[Profile]Loader{Korean: ok, Chinese: ok}, logging.Discard())

	require.NoError(t, reg.Preload(context.Background(), Korean, Chinese))
	assert.True(t, reg.Loaded(Korean))
	assert.True(t, reg.Loaded(Chinese))

	err := reg.Preload(context.Background(), JapaneseIPADIC)
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeDictionaryLoad))
}

func TestSetDefault_Restores(t *testing.T) {
	original := Default()
	reg := NewRegistry(nil, logging.Discard())

	restore := SetDefault(reg)
	assert.Same(t, reg, Default())

	restore()
	assert.Same(t, original, Default())
}
