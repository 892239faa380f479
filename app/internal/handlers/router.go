package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/closetly/edge-gateway/app/domain/entities"
	"github.com/closetly/edge-gateway/app/internal/metrics"
	"github.com/closetly/edge-gateway/app/internal/routing"
)

// Forwarder proxies one request to an upstream and reports how it ended.
type Forwarder interface {
	Forward(w http.ResponseWriter, r *http.Request, rule entities.RouteRule) entities.RouteOutcome
}

// StatsRecorder accumulates per-route traffic counters.
type StatsRecorder interface {
	Record(prefix string, outcome entities.RouteOutcome) (*entities.RouteStats, error)
}

// dispatchRule pairs a path predicate with its handler. The router walks
// its rules in order and the first matching predicate wins.
type dispatchRule struct {
	name   string
	match  func(path string) bool
	handle http.HandlerFunc
}

// Router dispatches each inbound request to exactly one of: a local
// responder (health, metrics, route status, static page), a forwarding
// action, or a structured 404.
type Router struct {
	table     *routing.Table
	forwarder Forwarder
	stats     StatsRecorder
	dispatch  []dispatchRule
}

// NewRouter creates a Router over an immutable route table with injected
// forwarding and stats dependencies.
func NewRouter(table *routing.Table, forwarder Forwarder, stats StatsRecorder, statusHandler *RouteStatusHandler) *Router {
	rt := &Router{
		table:     table,
		forwarder: forwarder,
		stats:     stats,
	}

	metricsHandler := promhttp.Handler()

	rt.dispatch = []dispatchRule{
		{
			name:   "health",
			match:  func(path string) bool { return path == "/health" },
			handle: rt.handleHealth,
		},
		{
			name:   "metrics",
			match:  func(path string) bool { return path == "/metrics" },
			handle: metricsHandler.ServeHTTP,
		},
		{
			name:   "routes-status",
			match:  func(path string) bool { return path == "/routes/status" },
			handle: statusHandler.HandleList,
		},
		{
			name: "forward",
			match: func(path string) bool {
				_, ok := table.Match(path)
				return ok
			},
			handle: rt.handleForward,
		},
		{
			name: "home",
			match: func(path string) bool {
				return path == "/" || path == "/shop" || path == "/shop/"
			},
			handle: rt.handleHome,
		},
	}

	return rt
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, rule := range rt.dispatch {
		if rule.match(r.URL.Path) {
			rule.handle(w, r)
			return
		}
	}
	rt.handleNotFound(w, r)
}

func (rt *Router) handleForward(w http.ResponseWriter, r *http.Request) {
	rule, ok := rt.table.Match(r.URL.Path)
	if !ok {
		// Dispatch only reaches here after a successful match.
		rt.handleNotFound(w, r)
		return
	}

	start := time.Now()
	outcome := rt.forwarder.Forward(w, r, rule)
	metrics.RequestDuration.WithLabelValues(rule.Prefix).Observe(time.Since(start).Seconds())
	metrics.RequestsTotal.WithLabelValues(rule.Prefix, statusClass(outcome.StatusCode)).Inc()
	if outcome.UpstreamError {
		kind := "transport"
		if outcome.Timeout {
			kind = "timeout"
		}
		metrics.UpstreamFailuresTotal.WithLabelValues(rule.Prefix, kind).Inc()
	}

	// Stats recording never fails the request.
	if _, err := rt.stats.Record(rule.Prefix, outcome); err != nil {
		log.Printf("Error recording stats for %s: %v", rule.Prefix, err)
	}
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

const homePage = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Closetly</title>
</head>
<body>
  <h1>Closetly</h1>
  <p>Storefront gateway is running.</p>
  <ul>
    <li>API: <code>/api/</code></li>
    <li>AI worker: <code>/ai/</code></li>
    <li>Media: <code>/media/</code></li>
  </ul>
</body>
</html>
`

func (rt *Router) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(homePage))
}

func (rt *Router) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	if err := json.NewEncoder(w).Encode(map[string]string{"detail": "Not Found"}); err != nil {
		log.Printf("Error encoding not-found body: %v", err)
	}
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return strconv.Itoa(code/100) + "xx"
}
