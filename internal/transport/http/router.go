package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pidstore/pkg/platform/middleware/metadata"
	"pidstore/pkg/platform/middleware/request"
	"pidstore/pkg/platform/middleware/requesttime"
)

// RouteRegistrar is implemented by handlers that mount their own routes.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// RouterConfig carries the transport settings shared by every route.
type RouterConfig struct {
	Logger         *slog.Logger
	Gatherer       prometheus.Gatherer
	HTTPMetrics    *request.Metrics
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	TrustedProxies []netip.Prefix
}

// NewRouter wires the middleware stack, the operational endpoints and the
// domain handlers. chi matches static segments before /{external_id}.
func NewRouter(cfg RouterConfig, health RouteRegistrar, handlers ...RouteRegistrar) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.NewMiddleware(metadata.Config{TrustedProxies: cfg.TrustedProxies}).Handler)
	r.Use(request.Logger(logger))
	r.Use(request.Latency(cfg.HTTPMetrics))
	if cfg.RequestTimeout > 0 {
		r.Use(request.Timeout(cfg.RequestTimeout))
	}
	if cfg.MaxBodyBytes > 0 {
		r.Use(request.BodyLimit(cfg.MaxBodyBytes))
	}
	r.Use(request.ContentTypeJSON)

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	if health != nil {
		health.Register(r)
	}
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/health", http.StatusTemporaryRedirect)
	})

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
