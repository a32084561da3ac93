// Package cache holds rendered pages for a fixed time-to-live. Entries are
// replaced whole, so a reader never observes a partial page.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"yatube/internal/clock"
)

// PageCache stores rendered pages by key. Every implementation expires
// entries after the TTL it was built with.
type PageCache interface {
	// Get returns the page and true, or false on a miss or expiry.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, page []byte) error
	// Clear drops every entry.
	Clear(ctx context.Context) error
}

// IndexKey is the cache key of one page of the public index.
func IndexKey(page int) string {
	return fmt.Sprintf("index:page:%d", page)
}

type entry struct {
	page    []byte
	expires time.Time
}

// Memory is a process-local PageCache.
type Memory struct {
	clock clock.Clock
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]entry
}

func NewMemory(c clock.Clock, ttl time.Duration) *Memory {
	if c == nil {
		c = clock.Real()
	}
	return &Memory{clock: c, ttl: ttl, entries: make(map[string]entry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !m.clock.Now().Before(e.expires) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expires.Equal(e.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	page := make([]byte, len(e.page))
	copy(page, e.page)
	return page, true, nil
}

func (m *Memory) Set(_ context.Context, key string, page []byte) error {
	stored := make([]byte, len(page))
	copy(stored, page)
	m.mu.Lock()
	m.entries[key] = entry{page: stored, expires: m.clock.Now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
	return nil
}

// DefaultRenderTimeout bounds one render shared by concurrent misses.
const DefaultRenderTimeout = 10 * time.Second

// Loader fills a PageCache on demand. Concurrent misses for one key run
// the render function once. A render that started before Clear never
// serves or stores its page for requests arriving after it.
type Loader struct {
	cache   PageCache
	flight  singleflight.Group
	timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

func NewLoader(c PageCache) *Loader {
	return &Loader{cache: c, timeout: DefaultRenderTimeout}
}

func (l *Loader) currentGeneration() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

// Load returns the cached page for key, rendering and storing it on a
// miss. A failing cache backend degrades to rendering every time.
//
// The render runs detached from any single caller, so one caller going
// away does not fail the others waiting on it; each caller stops waiting
// when its own ctx is done.
func (l *Loader) Load(ctx context.Context, key string, render func(context.Context) ([]byte, error)) ([]byte, error) {
	if page, ok, err := l.cache.Get(ctx, key); err == nil && ok {
		return page, nil
	}

	gen := l.currentGeneration()
	flightKey := fmt.Sprintf("%d/%s", gen, key)
	ch := l.flight.DoChan(flightKey, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		page, err := render(rctx)
		if err != nil {
			return nil, err
		}
		l.store(rctx, gen, key, page)
		return page, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// store saves page unless the cache was cleared since the render began.
func (l *Loader) store(ctx context.Context, gen uint64, key string, page []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		return
	}
	// Best effort; the page is still served if the cache is down.
	_ = l.cache.Set(ctx, key, page)
}

// Clear empties the underlying cache. Renders already running are not
// stored, and later loads do not join them.
func (l *Loader) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	return l.cache.Clear(ctx)
}
