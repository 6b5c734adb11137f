// Package service implements participant resolution and the participant
// listing queries.
package service

import (
	"context"
	"log/slog"
	"time"

	"peppolcheck/internal/participant/directory"
	"peppolcheck/internal/participant/identifier"
	"peppolcheck/internal/participant/metrics"
	"peppolcheck/internal/participant/models"
	"peppolcheck/internal/participant/tracer"
)

// DefaultQueryTimeout bounds each participant store query made during resolution.
const DefaultQueryTimeout = 5 * time.Second

// ParticipantStore is the persisted participant table as seen by the resolver.
// FindByFullID returns sentinel.ErrNotFound when nothing matches.
type ParticipantStore interface {
	FindByFullID(ctx context.Context, fullPID string) (*models.Participant, error)
	FindByEndpointID(ctx context.Context, endpointID string) ([]models.Participant, error)
	FindByEndpointCandidates(ctx context.Context, original string, candidates []string) ([]models.Participant, error)
}

// DirectoryIndex supplies the current directory index.
type DirectoryIndex interface {
	Index(ctx context.Context) (*directory.Index, error)
}

// ResultCache stores completed resolutions. Get returns sentinel.ErrNotFound on a miss.
type ResultCache interface {
	Get(ctx context.Context, req models.LookupRequest) (*models.Result, error)
	Set(ctx context.Context, req models.LookupRequest, result *models.Result) error
}

// EventPublisher receives completed resolutions. Implementations must not block.
type EventPublisher interface {
	PublishLookup(ctx context.Context, req models.LookupRequest, result *models.Result)
}

// Resolver runs the staged participant search.
type Resolver struct {
	store        ParticipantStore
	directory    DirectoryIndex
	normalizer   *identifier.Normalizer
	cache        ResultCache
	events       EventPublisher
	tracer       tracer.Tracer
	metrics      *metrics.Metrics
	logger       *slog.Logger
	queryTimeout time.Duration
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for the resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithResultCache enables caching of completed resolutions.
func WithResultCache(cache ResultCache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithEventPublisher publishes every completed resolution.
func WithEventPublisher(p EventPublisher) Option {
	return func(r *Resolver) {
		r.events = p
	}
}

// WithTracer sets the tracer for lookup and stage spans.
func WithTracer(t tracer.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = t
	}
}

// WithMetrics records lookup and stage metrics. Nil disables them.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithQueryTimeout overrides DefaultQueryTimeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.queryTimeout = d
		}
	}
}

// New creates a resolver over store and the directory index.
func New(store ParticipantStore, dir DirectoryIndex, normalizer *identifier.Normalizer, opts ...Option) *Resolver {
	r := &Resolver{
		store:        store,
		directory:    dir,
		normalizer:   normalizer,
		tracer:       tracer.NewNoop(),
		logger:       slog.Default(),
		queryTimeout: DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
