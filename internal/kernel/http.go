// Package kernel assembles the HTTP handler: global middleware, the
// metrics endpoint and the application routes.
package kernel

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/shashiranjanraj/stockroom/app/controllers"
	"github.com/shashiranjanraj/stockroom/app/routes"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
	"github.com/shashiranjanraj/stockroom/pkg/middleware"
	"github.com/shashiranjanraj/stockroom/pkg/reqid"
	"github.com/shashiranjanraj/stockroom/pkg/response"
	"github.com/shashiranjanraj/stockroom/pkg/router"
)

// HTTPKernel owns the router and the middleware that needs stopping.
type HTTPKernel struct {
	router  *router.Router
	limiter *middleware.RateLimiter
}

// NewHTTPKernel wires the middleware stack and routes. Call Close when done.
// Requests from trustedProxies are rate limited by their X-Forwarded-For client.
func NewHTTPKernel(products *controllers.ProductController, home *controllers.HomeController, ratePerMinute int, trustedProxies ...netip.Prefix) *HTTPKernel {
	r := router.New()
	limiter := middleware.NewRateLimiter(ratePerMinute, time.Minute, middleware.WithTrustedProxies(trustedProxies...))

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics
	//  2. Request ID
	//  3. Logger   (tags the request logger with request_id)
	//  4. Recovery (logs through the request logger)
	//  5. CORS     (answers preflight before rate limiting)
	//  6. Rate limiter
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(limiter.Middleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Fail(w, http.StatusNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	r.Handle("/metrics", "metrics", metrics.Handler())
	routes.RegisterWeb(r, home)
	routes.RegisterAPI(r, products)

	return &HTTPKernel{router: r, limiter: limiter}
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Routes lists every mounted endpoint.
func (k *HTTPKernel) Routes() []router.Route {
	return k.router.Routes()
}

// Close stops background work owned by the middleware.
func (k *HTTPKernel) Close() {
	k.limiter.Stop()
}
