package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"peppolcheck/internal/participant/doctype"
	"peppolcheck/internal/participant/models"
	"peppolcheck/internal/participant/tracer"
	dErrors "peppolcheck/pkg/domain-errors"
)

// Listing limits.
const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ListingStore is the read side of the participant table used for browsing.
type ListingStore interface {
	List(ctx context.Context, filter models.Filter, page models.Page) ([]models.Participant, error)
	Count(ctx context.Context, filter models.Filter) (int, error)
	Countries(ctx context.Context) ([]string, error)
	Schemes(ctx context.Context) ([]string, error)
}

// ListingService pages through registered participants.
type ListingService struct {
	store  ListingStore
	tracer tracer.Tracer
	logger *slog.Logger
}

// ListingOption configures the ListingService.
type ListingOption func(*ListingService)

// WithListingLogger sets the logger for the listing service.
func WithListingLogger(logger *slog.Logger) ListingOption {
	return func(s *ListingService) {
		s.logger = logger
	}
}

// WithListingTracer sets the tracer for listing spans.
func WithListingTracer(t tracer.Tracer) ListingOption {
	return func(s *ListingService) {
		s.tracer = t
	}
}

// NewListingService creates a listing service over store.
func NewListingService(store ListingStore, opts ...ListingOption) *ListingService {
	s := &ListingService{
		store:  store,
		tracer: tracer.NewNoop(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns one page of participants matching filter. The page count and
// the page rows are queried concurrently. Limits above MaxLimit are capped.
func (s *ListingService) List(ctx context.Context, filter models.Filter, page models.Page) (*models.Listing, error) {
	if page.Number < 1 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "page must be a positive integer")
	}
	if page.Limit < 1 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer")
	}
	page.Limit = min(page.Limit, MaxLimit)
	if page.Overflows() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "page is out of range")
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanList, tracer.Int("page", page.Number), tracer.Int("limit", page.Limit))

	var (
		total int
		rows  []models.Participant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.store.List(gctx, filter, page)
		return err
	})
	if err := g.Wait(); err != nil {
		span.End(err)
		s.logger.ErrorContext(ctx, "failed to list participants", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list participants")
	}
	span.SetAttributes(tracer.Int(tracer.AttrRows, len(rows)))
	span.End(nil)

	data := make([]models.ParticipantSummary, 0, len(rows))
	for i := range rows {
		data = append(data, summarize(&rows[i]))
	}

	return &models.Listing{
		Count:       len(data),
		TotalCount:  total,
		TotalPages:  (total + page.Limit - 1) / page.Limit,
		CurrentPage: page.Number,
		Filters:     filter,
		Data:        data,
	}, nil
}

// Count returns the number of participants matching filter.
func (s *ListingService) Count(ctx context.Context, filter models.Filter) (int, error) {
	n, err := s.store.Count(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count participants", "error", err)
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to count participants")
	}
	return n, nil
}

// Countries returns the distinct country codes on record.
func (s *ListingService) Countries(ctx context.Context) ([]string, error) {
	out, err := s.store.Countries(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list countries")
	}
	return out, nil
}

// Schemes returns the distinct scheme ids on record.
func (s *ListingService) Schemes(ctx context.Context) ([]string, error) {
	out, err := s.store.Schemes(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list schemes")
	}
	return out, nil
}

func summarize(p *models.Participant) models.ParticipantSummary {
	return models.ParticipantSummary{
		FullPID:            p.FullPID,
		SchemeID:           p.SchemeID,
		EndpointID:         p.EndpointID,
		CompanyName:        p.CompanyName,
		CountryCode:        p.CountryCode,
		RegistrationDate:   p.RegistrationDate,
		SupportsInvoice:    p.SupportsInvoice,
		SupportsCreditNote: p.SupportsCreditNote,
		DocumentTypes:      doctype.Derive(p),
	}
}
