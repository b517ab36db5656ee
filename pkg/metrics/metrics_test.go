package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	e := echo.New()
	e.Use(c.Middleware())
	e.GET("/api/products", func(ec echo.Context) error { return ec.NoContent(http.StatusOK) })
	e.GET("/api/shops", func(ec echo.Context) error { return echo.NewHTTPError(http.StatusForbidden) })

	for range 2 {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products", nil))
	}
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/shops", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/shops", "403")))
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordUpload(true)
	c.RecordWebhookEvent("payment_intent.succeeded")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), `santu_uploads_total{outcome="ok"} 1`))
	assert.True(t, strings.Contains(string(body), "santu_stripe_webhook_events_total"))
}
