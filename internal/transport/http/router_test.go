package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peppolcheck/internal/participant/directory"
	"peppolcheck/internal/participant/handler"
	"peppolcheck/internal/participant/identifier"
	"peppolcheck/internal/participant/models"
	"peppolcheck/internal/participant/service"
	"peppolcheck/internal/participant/store"
	"peppolcheck/internal/platform/health"
	"peppolcheck/pkg/testutil"
)

func newTestRouter(t *testing.T, checks map[string]health.CheckFunc) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	participants := store.NewInMemory(models.Participant{
		FullPID:     "0208:1009049626",
		SchemeID:    "0208",
		EndpointID:  "1009049626",
		CompanyName: "Acme",
	})
	normalizer := identifier.NewNormalizer([]string{"BE"})
	index := directory.NewIndexCache(directory.Empty, normalizer, directory.WithLogger(logger))

	resolver := service.New(participants, index, normalizer, service.WithLogger(logger))
	lister := service.NewListingService(participants, service.WithListingLogger(logger))

	hc := health.New("test")
	for name, check := range checks {
		hc.RegisterCheck(name, check)
	}

	return NewRouter(Deps{
		Participants: handler.New(resolver, lister, logger),
		Health:       hc,
		Logger:       logger,
		Gatherer:     prometheus.NewRegistry(),
	})
}

func TestRouterServesParticipantCheck(t *testing.T) {
	testutil.Given(t, "a participant registered under 0208", func(t *testing.T) {
		router := newTestRouter(t, nil)

		testutil.When(t, "it is checked with the registered scheme", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/api/check-participant",
				map[string]string{"schemeID": "0208", "participantID": "1009049626"})
			req.Header.Set("X-Request-ID", "req-123")
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "a direct match is returned", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code)
				testutil.AssertRawJSONField(t, rr, "matchType", "direct")
				testutil.AssertRawJSONField(t, rr, "message", "No document type specified - Acme")
			})

			testutil.Then(t, "the request id is echoed", func(t *testing.T) {
				assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
			})
		})

		testutil.When(t, "it is checked under another scheme", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/check-participant",
				map[string]string{"schemeID": "9925", "participantID": "1009049626"}))

			testutil.Then(t, "the registered scheme is offered as an alternative", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code)
				testutil.AssertRawJSONField(t, rr, "matchType", "alternative_schemes")
				testutil.AssertRawJSONField(t, rr, "foundIn", "database")
			})
		})
	})
}

func TestRouterRejectsNonJSONBody(t *testing.T) {
	router := newTestRouter(t, nil)

	req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/check-participant", "schemeID=0208")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnsupportedMediaType, "invalid_content_type")
}

func TestRouterListsParticipants(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/participants/schemes", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[handler.SchemesResponse](t, rr)
	assert.Equal(t, []string{"0208"}, resp.Schemes)
}

func TestRouterProbes(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		router := newTestRouter(t, map[string]health.CheckFunc{
			"directory": func(context.Context) error { return nil },
		})

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		router := newTestRouter(t, map[string]health.CheckFunc{
			"database": func(context.Context) error { return errors.New("connection refused") },
		})

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		resp := testutil.UnmarshalResponse[health.ReadinessResponse](t, rr)
		assert.Equal(t, "down: connection refused", resp.Checks["database"])
	})

	t.Run("metrics", func(t *testing.T) {
		router := newTestRouter(t, nil)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
