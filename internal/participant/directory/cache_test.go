package directory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"peppolcheck/internal/participant/identifier"
	"peppolcheck/pkg/platform/sentinel"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingFetcher returns the configured records or error and counts calls.
type countingFetcher struct {
	calls   atomic.Int32
	mu      sync.Mutex
	records []Record
	err     error
	gate    chan struct{}
}

func (f *countingFetcher) Fetch(ctx context.Context) ([]Record, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records, f.err
}

func (f *countingFetcher) set(records []Record, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = records
	f.err = err
}

type IndexCacheSuite struct {
	suite.Suite
	clock   *fakeClock
	fetcher *countingFetcher
	cache   *IndexCache
}

func TestIndexCacheSuite(t *testing.T) {
	suite.Run(t, new(IndexCacheSuite))
}

func (s *IndexCacheSuite) SetupTest() {
	s.clock = &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s.fetcher = &countingFetcher{records: []Record{{Scheme: "9925", ParticipantID: "BE0418159080"}}}
	s.cache = NewIndexCache(s.fetcher, identifier.NewNormalizer([]string{"BE"}),
		WithClock(s.clock.Now),
		WithTTL(5*time.Minute),
	)
}

func (s *IndexCacheSuite) TestBuildsOncePerWindow() {
	ctx := context.Background()

	for range 5 {
		idx, err := s.cache.Index(ctx)
		s.Require().NoError(err)
		s.Len(idx.Lookup("0418159080"), 1)
	}
	s.Equal(int32(1), s.fetcher.calls.Load())

	s.clock.Advance(4*time.Minute + 59*time.Second)
	_, err := s.cache.Index(ctx)
	s.Require().NoError(err)
	s.Equal(int32(1), s.fetcher.calls.Load())

	s.clock.Advance(time.Second)
	_, err = s.cache.Index(ctx)
	s.Require().NoError(err)
	s.Equal(int32(2), s.fetcher.calls.Load())
}

func (s *IndexCacheSuite) TestRebuildPicksUpNewSnapshot() {
	ctx := context.Background()
	_, err := s.cache.Index(ctx)
	s.Require().NoError(err)

	s.fetcher.set([]Record{{Scheme: "0208", ParticipantID: "1009049626"}}, nil)
	s.clock.Advance(6 * time.Minute)

	idx, err := s.cache.Index(ctx)
	s.Require().NoError(err)
	s.Empty(idx.Lookup("BE0418159080"))
	s.Len(idx.Lookup("1009049626"), 1)
	s.Equal(s.clock.Now(), s.cache.BuiltAt())
}

func (s *IndexCacheSuite) TestFailedRebuildServesStaleIndex() {
	ctx := context.Background()
	first, err := s.cache.Index(ctx)
	s.Require().NoError(err)

	s.fetcher.set(nil, errors.New("connection reset"))
	s.clock.Advance(10 * time.Minute)

	idx, err := s.cache.Index(ctx)
	s.Require().NoError(err)
	s.Same(first, idx)
}

func (s *IndexCacheSuite) TestFailedColdBuildIsUnavailable() {
	s.fetcher.set(nil, errors.New("no such host"))

	idx, err := s.cache.Index(context.Background())

	s.Nil(idx)
	s.True(errors.Is(err, sentinel.ErrUnavailable))
	s.Error(s.cache.Health(context.Background()))
}

func (s *IndexCacheSuite) TestInvalidateForcesRebuild() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Warm(ctx))
	s.NoError(s.cache.Health(ctx))

	s.cache.Invalidate()
	s.True(s.cache.BuiltAt().IsZero())

	_, err := s.cache.Index(ctx)
	s.Require().NoError(err)
	s.Equal(int32(2), s.fetcher.calls.Load())
}

func (s *IndexCacheSuite) TestConcurrentColdCallersShareOneBuild() {
	s.fetcher.gate = make(chan struct{})

	const callers = 20
	var wg sync.WaitGroup
	results := make([]*Index, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.cache.Index(context.Background())
		}()
	}

	// let the callers pile up behind the in-flight build
	s.Eventually(func() bool { return s.fetcher.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(s.fetcher.gate)
	wg.Wait()

	s.Equal(int32(1), s.fetcher.calls.Load())
	for i := range callers {
		s.Require().NoError(errs[i])
		s.Same(results[0], results[i])
	}
}

func (s *IndexCacheSuite) TestStaleReadersDoNotWaitForRebuild() {
	ctx := context.Background()
	first, err := s.cache.Index(ctx)
	s.Require().NoError(err)

	s.fetcher.gate = make(chan struct{})
	s.clock.Advance(6 * time.Minute)

	rebuilt := make(chan *Index)
	go func() {
		idx, _ := s.cache.Index(ctx)
		rebuilt <- idx
	}()
	s.Eventually(func() bool { return s.fetcher.calls.Load() == 2 }, time.Second, time.Millisecond)

	// rebuild in flight: other readers get the previous index immediately
	idx, err := s.cache.Index(ctx)
	s.Require().NoError(err)
	s.Same(first, idx)

	close(s.fetcher.gate)
	fresh := <-rebuilt
	s.NotSame(first, fresh)
	s.Equal(int32(2), s.fetcher.calls.Load())
}

func TestColdCallerHonoursContext(t *testing.T) {
	fetcher := &countingFetcher{gate: make(chan struct{})}
	cache := NewIndexCache(fetcher, identifier.NewNormalizer(nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := cache.Index(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrUnavailable))

	// the detached build still completes for later callers
	close(fetcher.gate)
	assert.Eventually(t, func() bool { return cache.Health(context.Background()) == nil }, time.Second, time.Millisecond)
}

func TestEmptyFetcherBuildsEmptyIndex(t *testing.T) {
	cache := NewIndexCache(Empty, identifier.NewNormalizer(nil))
	idx, err := cache.Index(context.Background())
	require.NoError(t, err)
	assert.Zero(t, idx.Len())
}
