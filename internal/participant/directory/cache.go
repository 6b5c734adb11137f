package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"peppolcheck/internal/participant/identifier"
	"peppolcheck/internal/participant/metrics"
	"peppolcheck/pkg/platform/sentinel"
)

const (
	DefaultTTL          = 5 * time.Minute
	DefaultFetchTimeout = 60 * time.Second

	rebuildKey = "directory-index"
)

type snapshot struct {
	index   *Index
	builtAt time.Time
}

// IndexCache memoizes the directory Index for a fixed window.
//
// At most one rebuild runs at a time. While an index exists, callers never wait
// on a rebuild triggered by someone else: they read the previous index until the
// new one is swapped in. A failed rebuild keeps serving the previous index.
type IndexCache struct {
	fetcher      Fetcher
	normalizer   *identifier.Normalizer
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	logger       *slog.Logger
	metrics      *metrics.Metrics

	current    atomic.Pointer[snapshot]
	refreshing atomic.Bool
	group      singleflight.Group
}

// CacheOption configures the IndexCache.
type CacheOption func(*IndexCache)

// WithClock injects the time source used for staleness checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *IndexCache) {
		c.now = now
	}
}

// WithTTL sets the rebuild window.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *IndexCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithFetchTimeout bounds each snapshot fetch.
func WithFetchTimeout(d time.Duration) CacheOption {
	return func(c *IndexCache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *IndexCache) {
		c.logger = logger
	}
}

// WithMetrics enables build metrics.
func WithMetrics(m *metrics.Metrics) CacheOption {
	return func(c *IndexCache) {
		c.metrics = m
	}
}

// NewIndexCache creates a cache that builds its Index from fetcher on first use.
func NewIndexCache(fetcher Fetcher, normalizer *identifier.Normalizer, opts ...CacheOption) *IndexCache {
	c := &IndexCache{
		fetcher:      fetcher,
		normalizer:   normalizer,
		ttl:          DefaultTTL,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Index returns the current index, rebuilding it when older than the TTL.
//
// Without any index, callers share a single in-flight build and fail with
// sentinel.ErrUnavailable if it fails. With a stale index, one caller rebuilds
// and the rest are answered from the stale index.
func (c *IndexCache) Index(ctx context.Context) (*Index, error) {
	snap := c.current.Load()
	if snap != nil && c.fresh(snap) {
		return snap.index, nil
	}

	if snap != nil {
		if !c.refreshing.CompareAndSwap(false, true) {
			c.staleServed()
			return snap.index, nil
		}
		defer c.refreshing.Store(false)

		idx, err := c.rebuild(ctx)
		if err != nil {
			c.logger.WarnContext(ctx, "directory index rebuild failed, serving stale index",
				"error", err,
				"built_at", snap.builtAt,
			)
			c.staleServed()
			return snap.index, nil
		}
		return idx, nil
	}

	return c.rebuild(ctx)
}

// Warm builds the index eagerly, typically at startup.
func (c *IndexCache) Warm(ctx context.Context) error {
	_, err := c.rebuild(ctx)
	return err
}

// Invalidate marks the current index stale so the next Index call rebuilds it.
func (c *IndexCache) Invalidate() {
	if snap := c.current.Load(); snap != nil {
		c.current.Store(&snapshot{index: snap.index})
	}
}

// BuiltAt reports when the current index was built. The zero time means no index
// or an invalidated one.
func (c *IndexCache) BuiltAt() time.Time {
	if snap := c.current.Load(); snap != nil {
		return snap.builtAt
	}
	return time.Time{}
}

// Health fails until a first index has been built.
func (c *IndexCache) Health(_ context.Context) error {
	if c.current.Load() == nil {
		return errors.New("directory index not built")
	}
	return nil
}

func (c *IndexCache) fresh(snap *snapshot) bool {
	return !snap.builtAt.IsZero() && c.now().Sub(snap.builtAt) < c.ttl
}

// rebuild collapses concurrent builds into one. The build is detached from the
// caller's cancellation so that one impatient caller cannot fail it for others;
// the caller itself still stops waiting when ctx is done.
func (c *IndexCache) rebuild(ctx context.Context) (*Index, error) {
	ch := c.group.DoChan(rebuildKey, func() (any, error) {
		// a build that finished between our staleness check and now is good enough
		if snap := c.current.Load(); snap != nil && c.fresh(snap) {
			return snap.index, nil
		}
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		return c.build(buildCtx)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting for directory index: %v", sentinel.ErrUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Index), nil
	}
}

func (c *IndexCache) build(ctx context.Context) (*Index, error) {
	start := time.Now()
	records, err := c.fetcher.Fetch(ctx)
	if err != nil {
		c.recordBuild(false, start, 0)
		if !errors.Is(err, sentinel.ErrUnavailable) {
			err = fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
		}
		return nil, fmt.Errorf("load directory snapshot: %w", err)
	}

	idx := Build(records, c.normalizer)
	c.current.Store(&snapshot{index: idx, builtAt: c.now()})
	c.recordBuild(true, start, idx.Len())

	c.logger.InfoContext(ctx, "directory index built",
		"records", len(records),
		"keys", idx.Keys(),
		"entries", idx.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return idx, nil
}

func (c *IndexCache) recordBuild(ok bool, start time.Time, entries int) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordIndexBuild(ok, time.Since(start).Seconds(), entries)
}

func (c *IndexCache) staleServed() {
	if c.metrics != nil {
		c.metrics.IncrementStaleServed()
	}
}
