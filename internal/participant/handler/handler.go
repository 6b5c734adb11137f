// Package handler exposes participant resolution and listing over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peppolcheck/internal/participant/models"
	"peppolcheck/pkg/platform/httputil"
	"peppolcheck/pkg/requestcontext"
)

// Resolver resolves a participant lookup.
type Resolver interface {
	Resolve(ctx context.Context, req models.LookupRequest) (*models.Result, error)
}

// Lister answers participant listing queries.
type Lister interface {
	List(ctx context.Context, filter models.Filter, page models.Page) (*models.Listing, error)
	Count(ctx context.Context, filter models.Filter) (int, error)
	Countries(ctx context.Context) ([]string, error)
	Schemes(ctx context.Context) ([]string, error)
}

// Handler serves the participant API.
type Handler struct {
	resolver Resolver
	lister   Lister
	logger   *slog.Logger
}

// New creates a participant Handler.
func New(resolver Resolver, lister Lister, logger *slog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		lister:   lister,
		logger:   logger,
	}
}

// Register registers the participant routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/check-participant", h.handleCheckParticipant)
	r.Route("/api/participants", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/count", h.handleCount)
		r.Get("/countries", h.handleCountries)
		r.Get("/schemes", h.handleSchemes)
		r.Get("/by-country/{code}", h.handleListByCountry)
	})
}

// Route names a request by its matched chi pattern, for latency metrics.
func Route(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func (h *Handler) handleCheckParticipant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.resolver.Resolve(ctx, req.LookupRequest())
	if err != nil {
		h.logger.ErrorContext(ctx, "participant check failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "")
}

func (h *Handler) handleListByCountry(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, chi.URLParam(r, "code"))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, country string) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	page, err := parsePage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if country != "" {
		filter.CountryCode = country
	}

	listing, err := h.lister.List(ctx, filter, page)
	if err != nil {
		h.logger.ErrorContext(ctx, "participant listing failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.SetPaginationHeaders(w, listing.TotalPages, listing.TotalCount)
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Success: true, Listing: *listing})
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	total, err := h.lister.Count(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "participant count failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CountResponse{Success: true, TotalCount: total, Filters: filter})
}

func (h *Handler) handleCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.lister.Countries(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CountriesResponse{Success: true, Count: len(countries), Countries: countries})
}

func (h *Handler) handleSchemes(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.lister.Schemes(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SchemesResponse{Success: true, Count: len(schemes), Schemes: schemes})
}
