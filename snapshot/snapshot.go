// Package snapshot provides the TTL'd snapshot cache behind every lorebase
// content domain. A Cache holds at most one immutable Snapshot and replaces
// it wholesale on refresh, so readers always see a consistent view and no
// entity is ever mutated in place.
//
// Typical usage:
//
//	c := snapshot.New("glossary", 5*time.Minute, fetchTerms,
//		snapshot.WithFallback(defaultTerms))
//	snap := c.Get(ctx, false) // never nil, never an error
package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTTL is the snapshot time-to-live used when none is configured.
const DefaultTTL = 5 * time.Minute

// Snapshot is an immutable, timestamped copy of normalized content for one
// domain. Once built it is never mutated; a refresh installs a new one.
type Snapshot[T any] struct {
	Title     string    `json:"title"`
	FetchedAt time.Time `json:"fetched_at"`
	// Fallback marks a snapshot built from static defaults after a failed
	// first fetch, so callers and operators can tell it from live data.
	Fallback bool `json:"fallback,omitempty"`
	Data     T    `json:"data"`
}

// FetchFunc retrieves and normalizes fresh content for a domain.
type FetchFunc[T any] func(ctx context.Context) (title string, data T, err error)

// Recorder receives the outcome of every refresh attempt. Implementations
// must not block; the cache calls it inline on the refresh path.
type Recorder interface {
	RecordRefresh(domain string, ok, fallback bool, elapsed time.Duration, fetchErr error)
}

// Cache holds one snapshot and its fetch timestamp for a single domain.
// Reads are lock-cheap; refreshes are serialized so that a burst of queries
// against an expired cache triggers exactly one upstream fetch.
type Cache[T any] struct {
	name     string
	ttl      time.Duration
	fetch    FetchFunc[T]
	fallback func() (string, T)
	now      func() time.Time
	logger   *slog.Logger
	recorder Recorder

	// mu guards snap; fetchMu serializes refresh attempts so concurrent
	// expired readers don't each hit the upstream.
	mu      sync.RWMutex
	fetchMu sync.Mutex
	snap    *Snapshot[T]

	hits     atomic.Int64
	misses   atomic.Int64
	failures atomic.Int64
}

// Option configures a Cache during creation.
type Option[T any] func(*Cache[T])

// WithClock overrides the time source. Tests use this to step through TTL
// windows without sleeping.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) { c.now = now }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(c *Cache[T]) { c.logger = l }
}

// WithFallback sets the static default content served when the very first
// fetch fails. Without it, a failed first fetch caches a zero-value snapshot.
func WithFallback[T any](fn func() (string, T)) Option[T] {
	return func(c *Cache[T]) { c.fallback = fn }
}

// WithRecorder sets the refresh-history recorder.
func WithRecorder[T any](r Recorder) Option[T] {
	return func(c *Cache[T]) { c.recorder = r }
}

// New creates a Cache for one domain. name labels log entries and refresh
// records. A non-positive ttl falls back to DefaultTTL.
func New[T any](name string, ttl time.Duration, fetch FetchFunc[T], opts ...Option[T]) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache[T]{
		name:  name,
		ttl:   ttl,
		fetch: fetch,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Current returns the cached snapshot without triggering any I/O.
// Nil when nothing has been fetched yet.
func (c *Cache[T]) Current() *Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Get returns a usable snapshot, refreshing first when the cache is empty,
// expired, or force is set. It never fails from the caller's perspective:
// a refresh error degrades to the previous snapshot (stale-while-error) or,
// when there is none, to the static fallback.
//
// The fallback snapshot is stamped with a fresh FetchedAt, so repeated
// queries during an upstream outage wait out a full TTL window instead of
// hammering the failing source on every call. The snapshot carries
// Fallback=true, the failure is logged and recorded, and both force and
// Refresh bypass the stamp.
func (c *Cache[T]) Get(ctx context.Context, force bool) *Snapshot[T] {
	if !force {
		if snap := c.Current(); snap != nil && c.valid(snap) {
			c.hits.Add(1)
			return snap
		}
	}

	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	// Re-check after acquiring the fetch lock: another caller may have
	// refreshed while this one waited.
	if !force {
		if snap := c.Current(); snap != nil && c.valid(snap) {
			c.hits.Add(1)
			return snap
		}
	}

	c.misses.Add(1)
	snap, elapsed, err := c.refresh(ctx)
	if err == nil {
		return snap
	}

	if prev := c.Current(); prev != nil {
		c.logger.Warn("snapshot refresh failed, serving cached data",
			"domain", c.name, "age", c.now().Sub(prev.FetchedAt), "error", err)
		c.record(false, false, elapsed, err)
		return prev
	}

	// First fetch ever failed: install the fallback.
	var title string
	var data T
	if c.fallback != nil {
		title, data = c.fallback()
	}
	fb := &Snapshot[T]{Title: title, FetchedAt: c.now(), Fallback: true, Data: data}
	c.replace(fb)
	c.logger.Warn("snapshot refresh failed with no cached data, serving defaults",
		"domain", c.name, "error", err)
	c.record(false, true, elapsed, err)
	return fb
}

// Refresh forces a live fetch and surfaces the fetch error, for the explicit
// refresh operation. The cached snapshot is left untouched on failure.
func (c *Cache[T]) Refresh(ctx context.Context) (*Snapshot[T], error) {
	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()
	snap, elapsed, err := c.refresh(ctx)
	if err != nil {
		c.record(false, false, elapsed, err)
		return c.Current(), err
	}
	return snap, nil
}

// Invalidate drops the cached snapshot; the next Get refreshes.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

// Stats are point-in-time counters.
type Stats struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Failures int64 `json:"failures"`
}

// Stats returns the current counters.
func (c *Cache[T]) Stats() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Failures: c.failures.Load(),
	}
}

// refresh performs one fetch attempt and installs the result on success.
// Failures are not recorded here; the caller records them with the right
// fallback flag. Caller must hold fetchMu.
func (c *Cache[T]) refresh(ctx context.Context) (*Snapshot[T], time.Duration, error) {
	start := time.Now()
	title, data, err := c.fetch(ctx)
	elapsed := time.Since(start)
	if err != nil {
		c.failures.Add(1)
		return nil, elapsed, err
	}

	snap := &Snapshot[T]{Title: title, FetchedAt: c.now(), Data: data}
	c.replace(snap)
	c.logger.Debug("snapshot refreshed", "domain", c.name, "duration", elapsed)
	c.record(true, false, elapsed, nil)
	return snap, elapsed, nil
}

func (c *Cache[T]) replace(snap *Snapshot[T]) {
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

func (c *Cache[T]) valid(snap *Snapshot[T]) bool {
	return c.now().Sub(snap.FetchedAt) < c.ttl
}

func (c *Cache[T]) record(ok, fallback bool, elapsed time.Duration, err error) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordRefresh(c.name, ok, fallback, elapsed, err)
}
