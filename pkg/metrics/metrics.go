// Package metrics exposes Prometheus counters for the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	uploads       *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "santu_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "santu_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "santu_uploads_total",
			Help: "Upload relay attempts by outcome.",
		}, []string{"outcome"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "santu_stripe_webhook_events_total",
			Help: "Verified Stripe webhook events by event type.",
		}, []string{"type"}),
	}

	reg.MustRegister(c.requests, c.latency, c.uploads, c.webhookEvents)
	return c
}

func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordUpload(ok bool) {
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	c.uploads.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordWebhookEvent(eventType string) {
	c.webhookEvents.WithLabelValues(eventType).Inc()
}

// Middleware records every request under its route template, so path
// parameters do not explode label cardinality. Place it after the request
// logger, which renders errors and settles the final status.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			start := time.Now()
			err := next(ec)
			status := ec.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			route := ec.Path()
			if route == "" {
				route = "unmatched"
			}
			c.RecordRequest(ec.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
