// Package scopelock implements the shared/exclusive locking discipline
// over a *design.Context: two proxy types
// acquire the lock on construction and release it on destruction
// (Go's idiom for that is an explicit Close, since there is no
// destructor — callers use defer). All mutators live on the RW proxy;
// accessors live on both. It generalises the sync.RWMutex guard
// cgra.go uses to protect the package-level side-name table to a
// whole-Context guard.
package scopelock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rs/xid"

	"github.com/nextpnr-go/corepnr/design"
)

// Guard wraps a *design.Context with a single shared/exclusive lock.
// The algorithmic stages (pack/place/route) hold one long-lived RW
// proxy across their full duration; a GUI (external, out of scope)
// would hold short-lived RO proxies concurrently. In headless builds
// this is a plain sync.RWMutex — there is exactly one writer at a
// time by construction, since only one stage runs at once.
type Guard struct {
	mu  sync.RWMutex
	ctx *design.Context
}

// NewGuard wraps ctx in a Guard.
func NewGuard(ctx *design.Context) *Guard {
	return &Guard{ctx: ctx}
}

// ROProxy is a read-only handle on the Context. It must be released
// with Release exactly once.
type ROProxy struct {
	g        *Guard
	id       xid.ID
	released bool
}

// RWProxy is a read-write handle on the Context. It must be released
// with Release exactly once.
type RWProxy struct {
	g        *Guard
	id       xid.ID
	released bool
}

// RLock acquires a shared read proxy. Each acquisition is tagged with
// a fresh run-scoped xid so a diagnostic log (enabled separately, this
// package never forces Debug-level output on) can pair up an
// acquire/release without relying on goroutine IDs, which Go does not
// expose.
func (g *Guard) RLock() *ROProxy {
	g.mu.RLock()
	id := xid.New()
	slog.DebugContext(context.Background(), "scopelock: RO proxy acquired", "lock_id", id.String())
	return &ROProxy{g: g, id: id}
}

// Lock acquires an exclusive read-write proxy. It blocks until every
// outstanding ROProxy has released.
func (g *Guard) Lock() *RWProxy {
	g.mu.Lock()
	id := xid.New()
	slog.DebugContext(context.Background(), "scopelock: RW proxy acquired", "lock_id", id.String())
	return &RWProxy{g: g, id: id}
}

// Context returns the guarded Context for read-only use. Calling this
// after Release panics — the acquire→use→release discipline must be
// preserved.
func (p *ROProxy) Context() *design.Context {
	if p.released {
		panic("scopelock: use of ROProxy after Release")
	}
	return p.g.ctx
}

// Release returns the shared lock. Safe to call at most once.
func (p *ROProxy) Release() {
	if p.released {
		panic("scopelock: double Release of ROProxy")
	}
	p.released = true
	slog.DebugContext(context.Background(), "scopelock: RO proxy released", "lock_id", p.id.String())
	p.g.mu.RUnlock()
}

// Context returns the guarded Context for read-write use.
func (p *RWProxy) Context() *design.Context {
	if p.released {
		panic("scopelock: use of RWProxy after Release")
	}
	return p.g.ctx
}

// Release returns the exclusive lock. Safe to call at most once.
func (p *RWProxy) Release() {
	if p.released {
		panic("scopelock: double Release of RWProxy")
	}
	p.released = true
	slog.DebugContext(context.Background(), "scopelock: RW proxy released", "lock_id", p.id.String())
	p.g.mu.Unlock()
}
