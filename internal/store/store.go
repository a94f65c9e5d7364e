// Package store implements the document store (C4): a concurrent map
// from document URI to parsed Document, workspace directory scanning,
// and file-watch reconciliation.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/aacnsilva/al-lsp/internal/reqlock"
)

// entry is one slot in the store's document map: a document plus the
// per-entry lock guarding it. Per §5, concurrent reads of different
// documents never contend; a read and a write of the *same* document
// are serialized through entry.mu.
type entry struct {
	mu  reqlock.Mutex
	doc *Document
}

// Store is the concurrent URI -> Document map plus the workspace roots
// vector described in §4.4.
type Store struct {
	logger *zap.Logger

	mapMu sync.RWMutex
	docs  map[protocol.URI]*entry
	pool  reqlock.Pool

	rootsMu sync.Mutex
	roots   []string
}

// New creates an empty store.
func New(logger *zap.Logger) *Store {
	return &Store{
		logger: logger,
		docs:   make(map[protocol.URI]*entry),
	}
}

func (s *Store) getOrCreateEntry(uri protocol.URI) *entry {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()
	e, ok := s.docs[uri]
	if !ok {
		e = &entry{mu: s.pool.NewMutex()}
		s.docs[uri] = e
	}
	return e
}

func (s *Store) getEntry(uri protocol.URI) (*entry, bool) {
	s.mapMu.RLock()
	defer s.mapMu.RUnlock()
	e, ok := s.docs[uri]
	return e, ok
}

// Put parses text and installs it as the document for uri, creating the
// entry if this URI has never been observed before. This backs
// didOpen, didChange, and file-watch CREATED/CHANGED — all of which
// fully reparse (§4.4); the workspace scan uses PutIfAbsent instead.
func (s *Store) Put(ctx context.Context, uri protocol.URI, version int32, text string) (*Document, error) {
	e := s.getOrCreateEntry(uri)
	unlock := e.mu.Lock(ctx)
	defer unlock()

	doc, err := newDocument(ctx, uri, version, text)
	if err != nil {
		// Parse failure: prior state (if any) is retained, nothing published.
		return nil, fmt.Errorf("parse %s: %w", uri, err)
	}
	e.doc = doc
	return doc, nil
}

// PutIfAbsent installs text as the document for uri only if uri has no
// document yet. Used by workspace scan, which must not clobber a
// document the client already opened (§4.4 step 2).
func (s *Store) PutIfAbsent(ctx context.Context, uri protocol.URI, text string) (*Document, error) {
	e := s.getOrCreateEntry(uri)
	unlock := e.mu.Lock(ctx)
	defer unlock()

	if e.doc != nil {
		return e.doc, nil
	}

	doc, err := newDocument(ctx, uri, 0, text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", uri, err)
	}
	e.doc = doc
	return doc, nil
}

// Get returns the document for uri, or nil if it is not known.
func (s *Store) Get(ctx context.Context, uri protocol.URI) *Document {
	e, ok := s.getEntry(uri)
	if !ok {
		return nil
	}
	unlock := e.mu.Lock(ctx)
	defer unlock()
	return e.doc
}

// Delete removes uri from the store entirely. Only a file-system
// deletion (file-watch DELETED, or a reload that finds the path gone)
// does this — didClose never does (§4.6).
func (s *Store) Delete(ctx context.Context, uri protocol.URI) {
	s.mapMu.Lock()
	delete(s.docs, uri)
	s.mapMu.Unlock()
}

// URIs returns a snapshot of every URI currently tracked.
func (s *Store) URIs() []protocol.URI {
	s.mapMu.RLock()
	defer s.mapMu.RUnlock()
	out := make([]protocol.URI, 0, len(s.docs))
	for uri := range s.docs {
		out = append(out, uri)
	}
	return out
}

// Range calls fn once per tracked document, in a stable URI-sorted
// order, locking (and releasing) each entry individually.
//
// Callers that reached Range from within a handler already holding a
// lock on one of these documents MUST release that lock first: Range
// will re-acquire it, and a reentrant non-reentrant lock panics (see
// internal/reqlock). This is the mechanical form of §5's "a handler
// that needs to fan out across all documents ... must release the
// borrow on the originating document before iterating the map" rule.
func (s *Store) Range(ctx context.Context, fn func(uri protocol.URI, doc *Document) bool) {
	uris := s.URIs()
	sort.Slice(uris, func(i, j int) bool { return uris[i] < uris[j] })
	for _, uri := range uris {
		doc := s.Get(ctx, uri)
		if doc == nil {
			continue
		}
		if !fn(uri, doc) {
			return
		}
	}
}

// Roots returns a snapshot of the current workspace roots.
func (s *Store) Roots() []string {
	s.rootsMu.Lock()
	defer s.rootsMu.Unlock()
	return append([]string(nil), s.roots...)
}

// SetRoots replaces the workspace roots vector.
func (s *Store) SetRoots(roots []string) {
	s.rootsMu.Lock()
	defer s.rootsMu.Unlock()
	s.roots = append([]string(nil), roots...)
}

// AddRoots appends new roots, skipping ones already present.
func (s *Store) AddRoots(roots []string) {
	s.rootsMu.Lock()
	defer s.rootsMu.Unlock()
	for _, r := range roots {
		found := false
		for _, existing := range s.roots {
			if existing == r {
				found = true
				break
			}
		}
		if !found {
			s.roots = append(s.roots, r)
		}
	}
}

// RemoveRoots drops the given roots.
func (s *Store) RemoveRoots(roots []string) {
	s.rootsMu.Lock()
	defer s.rootsMu.Unlock()
	remove := make(map[string]bool, len(roots))
	for _, r := range roots {
		remove[r] = true
	}
	kept := s.roots[:0]
	for _, r := range s.roots {
		if !remove[r] {
			kept = append(kept, r)
		}
	}
	s.roots = kept
}

// Logger returns the store's logger, for use by the scanner and watcher.
func (s *Store) Logger() *zap.Logger {
	return s.logger
}
