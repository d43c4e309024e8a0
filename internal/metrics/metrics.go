// Package metrics exposes Prometheus counters for the display daemon.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Renders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundel_renders_total",
			Help: "Frames rendered, by mode.",
		},
		[]string{"mode"},
	)

	RenderSkips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundel_render_skips_total",
			Help: "Updates suppressed by the change detector, by mode.",
		},
		[]string{"mode"},
	)

	ModeSwitches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundel_mode_switches_total",
			Help: "Mode switches, by target mode.",
		},
		[]string{"to"},
	)

	ButtonEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundel_button_events_total",
			Help: "Button presses, by outcome.",
		},
		[]string{"outcome"},
	)

	SensorUnavailable = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundel_sensor_unavailable_total",
			Help: "Sensor reads that produced no sample, by metric.",
		},
		[]string{"metric"},
	)

	FeedRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundel_feed_refresh_total",
			Help: "External feed refreshes, by feed and result.",
		},
		[]string{"feed", "result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundel_http_requests_total",
			Help: "HTTP API requests, by route and status.",
		},
		[]string{"route", "method", "status"},
	)
)

func init() {
	prometheus.MustRegister(Renders, RenderSkips, ModeSwitches, ButtonEvents,
		SensorUnavailable, FeedRefreshes, httpRequests)
}

// Result converts a success flag into a label value.
func Result(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware counts requests by route pattern and status code. Requests that
// match no chi route are labeled with their raw path.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rw.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
