package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"peppolcheck/internal/participant/handler"
	"peppolcheck/internal/platform/health"
	request "peppolcheck/pkg/platform/middleware/request"
)

// DefaultRequestTimeout bounds API requests. It leaves room for a cold
// directory index build on the first lookup.
const DefaultRequestTimeout = 60 * time.Second

// Deps are the components mounted on the router.
type Deps struct {
	Participants *handler.Handler
	Health       *health.Handler
	Logger       *slog.Logger

	// Gatherer backs /metrics. Nil means the default registry.
	Gatherer       prometheus.Gatherer
	LatencyMetrics *request.Metrics
	RequestTimeout time.Duration
}

// NewRouter wires all public endpoints. Probes and /metrics sit outside the
// request timeout so a slow lookup never blocks them.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.ClientMetadata)
	r.Use(request.Logger(d.Logger))

	d.Health.Register(r)
	r.Handle("/metrics", metricsHandler(d.Gatherer))

	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r.Group(func(r chi.Router) {
		if d.LatencyMetrics != nil {
			r.Use(request.LatencyMiddleware(d.LatencyMetrics, handler.Route))
		}
		r.Use(request.Timeout(timeout))
		r.Use(request.ContentTypeJSON)
		d.Participants.Register(r)
	})

	return r
}

func metricsHandler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

