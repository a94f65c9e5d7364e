// Package reqlock provides request-scoped, reentrancy-checking mutexes.
//
// An LSP handler that fans out across many documents can easily deadlock
// itself if it re-acquires a lock on a document it is already holding.
// Pool detects that case and panics instead of hanging, and Lock/Unlock
// are keyed off a request ID stashed in the context so that two different
// requests never appear to "already hold" each other's locks.
package reqlock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

const poison = ^uint64(0)

var nextRequestID atomic.Uint64

// Pool represents a group of non-reentrant mutexes that cannot be acquired
// simultaneously by the same request.
//
// A zero Pool is ready to use.
type Pool struct {
	lock sync.Mutex
	held map[uint64]*Mutex
}

// NewMutex creates a new mutex belonging to this pool.
func (p *Pool) NewMutex() Mutex {
	return Mutex{pool: p}
}

func (p *Pool) check(id uint64, mu *Mutex, isUnlock bool) {
	if p == nil {
		return
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if p.held == nil {
		p.held = make(map[uint64]*Mutex)
	}

	if isUnlock {
		if held := p.held[id]; held != mu {
			panic(fmt.Sprintf("reqlock: attempted to unlock incorrect non-reentrant lock: %p -> %p", held, mu))
		}
		delete(p.held, id)
	} else {
		if held := p.held[id]; held != nil {
			panic(fmt.Sprintf("reqlock: attempted to acquire two non-reentrant locks at once: %p -> %p", mu, held))
		}
		p.held[id] = mu
	}
}

// Mutex is a sync.Mutex with reentrancy checking keyed on a request ID
// carried in a context.Context (see WithRequestID).
type Mutex struct {
	lock sync.Mutex
	who  atomic.Uint64
	pool *Pool
}

// Lock attempts to acquire this mutex, blocking until it is free.
//
// It returns an idempotent unlocker usable as `defer mu.Lock(ctx)()`.
// Locking the same mutex twice with the same request ID panics: that
// indicates a handler re-entering a document it is already holding
// instead of releasing the lock before fanning out across the store.
func (mu *Mutex) Lock(ctx context.Context) (unlocker func()) {
	var unlocked bool
	unlocker = func() {
		if unlocked {
			return
		}
		mu.Unlock(ctx)
		unlocked = true
	}

	id := RequestID(ctx)

	if mu.who.Load() == id && id > 0 {
		mu.who.Store(poison)
		panic("reqlock: non-reentrant lock locked twice by the same request")
	}

	mu.pool.check(id, mu, false)

	mu.lock.Lock()
	mu.storeWho(id)

	return unlocker
}

// Unlock releases this mutex. It must be called with the same context
// (request ID) that locked it.
func (mu *Mutex) Unlock(ctx context.Context) {
	id := RequestID(ctx)
	if mu.who.Load() != id {
		panic("reqlock: lock was locked by one request and unlocked by another")
	}

	mu.storeWho(0)
	mu.pool.check(id, mu, true)
	mu.lock.Unlock()
}

func (mu *Mutex) storeWho(id uint64) {
	for {
		old := mu.who.Load()
		if old == poison {
			panic("reqlock: non-reentrant lock locked twice by the same request")
		}
		if mu.who.CompareAndSwap(old, id) {
			break
		}
	}
}

// WithRequestID assigns a unique request ID to ctx, retrievable with
// RequestID. Each incoming LSP request should call this exactly once.
func WithRequestID(ctx context.Context) context.Context {
	id := nextRequestID.Add(1)
	return context.WithValue(ctx, &nextRequestID, id)
}

// RequestID returns the request ID stashed in ctx, or 0 if there is none.
func RequestID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, ok := ctx.Value(&nextRequestID).(uint64)
	if !ok {
		return 0
	}
	return id
}
