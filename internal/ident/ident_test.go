package ident

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{16}-[0-9a-f]{8}$`)

func TestNext_Format(t *testing.T) {
	id := Next()

	assert.Regexp(t, idPattern, id)
}

func TestGenerator_FixedClock(t *testing.T) {
	// Given: a clock frozen at a known instant
	at := time.UnixMicro(0x5f5e100)
	g := NewWithClock(func() time.Time { return at })

	// When: generating twice within the same microsecond
	a, b := g.Next(), g.Next()

	// Then: the counter alone keeps them apart
	assert.Equal(t, "0000000005f5e100-00000001", a)
	assert.Equal(t, "0000000005f5e100-00000002", b)
}

func TestGenerator_UniqueUnderConcurrency(t *testing.T) {
	g := New()
	const workers, per = 8, 500

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*per)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, per)
			for j := 0; j < per; j++ {
				local = append(local, g.Next())
			}
			mu.Lock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*per)
}
