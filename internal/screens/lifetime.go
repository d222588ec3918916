// Package screens holds the view state and behaviour of the auth, project
// list and project detail screens, independent of how they are rendered.
//
// Network work happens in Fetch-style methods that only read immutable
// dependencies, so they may run off the UI goroutine. Their results are
// merged with Apply, which drops results from a closed screen or from a
// load that a newer one has superseded.
package screens

import (
	"context"
	"sync/atomic"
)

// Lifetime scopes requests to a mounted screen.
type Lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
	gen    atomic.Uint64
}

// NewLifetime starts a lifetime derived from parent.
func NewLifetime(parent context.Context) *Lifetime {
	ctx, cancel := context.WithCancel(parent)
	return &Lifetime{ctx: ctx, cancel: cancel}
}

// Context is cancelled when the screen closes.
func (l *Lifetime) Context() context.Context {
	return l.ctx
}

// Close cancels in-flight requests and invalidates pending results.
func (l *Lifetime) Close() {
	l.cancel()
}

// Closed reports whether Close was called.
func (l *Lifetime) Closed() bool {
	return l.ctx.Err() != nil
}

// next starts a new load generation.
func (l *Lifetime) next() uint64 {
	return l.gen.Add(1)
}

// current reports whether gen is the latest load of a live screen.
func (l *Lifetime) current(gen uint64) bool {
	return !l.Closed() && l.gen.Load() == gen
}
