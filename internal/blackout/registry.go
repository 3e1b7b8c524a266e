// Package blackout caches the institution's blocked dates so schedule
// generation can ask "is this day blocked?" without hitting storage for
// every candidate day.
package blackout

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched set of blocked dates stays fresh.
const DefaultTTL = 5 * time.Minute

const flightKey = "blocked-dates"

// Source returns every blocked date record.
type Source interface {
	List(ctx context.Context) ([]domain.BlockedDate, error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry is a read-through TTL cache over a Source.
type Registry struct {
	source Source
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu        sync.RWMutex
	entries   []domain.BlockedDate
	fetchedAt time.Time
	loaded    bool
	epoch     uint64

	group singleflight.Group
}

// NewRegistry creates a registry reading from source.
func NewRegistry(source Source, opts ...Option) *Registry {
	r := &Registry{
		source: source,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns the cached blocked dates, refetching when the cache is cold
// or expired. On a fetch failure it returns an empty list and the error;
// the failure is not cached.
func (r *Registry) List(ctx context.Context) ([]domain.BlockedDate, error) {
	entries, err := r.load(ctx)
	if err != nil {
		return []domain.BlockedDate{}, err
	}
	out := make([]domain.BlockedDate, len(entries))
	copy(out, entries)
	return out, nil
}

// IsBlocked reports whether day is a blocked date or inside a blocked range.
// Fetch failures are logged and treated as "nothing blocked".
func (r *Registry) IsBlocked(ctx context.Context, day time.Time) bool {
	entries, err := r.load(ctx)
	if err != nil {
		return false
	}
	return covers(entries, day)
}

// Snapshot returns an immutable view of the current blocked dates for one
// generation run. On a fetch failure the snapshot is empty and the error is
// returned alongside it.
func (r *Registry) Snapshot(ctx context.Context) (Snapshot, error) {
	entries, err := r.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{entries: entries}, nil
}

// Invalidate drops the cached set. The next read refetches, and a fetch
// already in flight will not repopulate the cache.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.loaded = false
	r.entries = nil
	r.epoch++
	r.mu.Unlock()
	r.group.Forget(flightKey)
}

func (r *Registry) cached() ([]domain.BlockedDate, uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.loaded && r.now().Sub(r.fetchedAt) < r.ttl {
		return r.entries, r.epoch, true
	}
	return nil, r.epoch, false
}

func (r *Registry) load(ctx context.Context) ([]domain.BlockedDate, error) {
	if entries, _, ok := r.cached(); ok {
		return entries, nil
	}

	v, err, _ := r.group.Do(flightKey, func() (any, error) {
		entries, epoch, ok := r.cached()
		if ok {
			return entries, nil
		}

		// Shared by every waiter, so one caller's cancellation must not
		// fail the others.
		fetched, err := r.source.List(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if r.epoch == epoch {
			r.entries = fetched
			r.fetchedAt = r.now()
			r.loaded = true
		}
		r.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		r.logger.Warn("blocked dates unavailable, treating no day as blocked", zap.Error(err))
		return nil, err
	}
	return v.([]domain.BlockedDate), nil
}

// Snapshot is a fixed set of blocked dates.
type Snapshot struct {
	entries []domain.BlockedDate
}

// NewSnapshot builds a snapshot from explicit entries.
func NewSnapshot(entries []domain.BlockedDate) Snapshot {
	cp := make([]domain.BlockedDate, len(entries))
	copy(cp, entries)
	return Snapshot{entries: cp}
}

// IsBlocked reports whether day is covered by any entry.
func (s Snapshot) IsBlocked(day time.Time) bool {
	return covers(s.entries, day)
}

// Len returns the number of entries.
func (s Snapshot) Len() int { return len(s.entries) }

func covers(entries []domain.BlockedDate, day time.Time) bool {
	for _, b := range entries {
		if b.Covers(day) {
			return true
		}
	}
	return false
}
