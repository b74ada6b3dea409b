// Package ident generates document identities.
//
// An identity is "<16 hex digits>-<8 hex digits>": the wall clock in
// microseconds since the Unix epoch followed by a process-local counter.
// Identities are unique within one process run; they are not globally unique
// and two processes started in the same microsecond may collide.
package ident

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Generator hands out identities. The zero value is not usable; call New.
type Generator struct {
	counter atomic.Uint64
	now     func() time.Time
}

// New returns a generator driven by the wall clock.
func New() *Generator {
	return NewWithClock(time.Now)
}

// NewWithClock returns a generator that reads time from now.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Next returns a fresh identity. It is safe for concurrent use.
func (g *Generator) Next() string {
	n := g.counter.Add(1)
	return fmt.Sprintf("%016x-%08x", uint64(g.now().UnixMicro()), n)
}

var std = New()

// Next returns an identity from the process-wide generator.
func Next() string {
	return std.Next()
}
