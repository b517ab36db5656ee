package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/santu/marketplace/internal/webhook"
	"github.com/santu/marketplace/pkg/logging"
	"github.com/santu/marketplace/pkg/metrics"
)

// maxWebhookBody is enforced by the route's BodyLimit; larger bodies get 413.
const maxWebhookBody = 1 << 20

type WebhookHTTP struct {
	Verifier *webhook.Verifier
	Metrics  *metrics.Collector
}

// Stripe acknowledges verified events. Payment handling is intentionally a
// no-op: the event is logged and counted, nothing is persisted.
func (h *WebhookHTTP) Stripe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "webhook.stripe")

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			l.Warn("stripe_webhook_error", "status", he.Code, "reason", "body too large")
			return he
		}
		return badBody(l, "stripe_webhook", err)
	}

	event, err := h.Verifier.Verify(payload, c.Request().Header.Get(webhook.SignatureHeader))
	if err != nil {
		if errors.Is(err, webhook.ErrNotConfigured) {
			l.Error("stripe_webhook_error", "status", http.StatusInternalServerError, "reason", "webhook secret missing")
			return echo.NewHTTPError(http.StatusInternalServerError, "webhook is not configured")
		}
		l.Warn("stripe_webhook_error", "status", http.StatusBadRequest, "reason", "bad signature", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	l.Info("stripe_webhook_received", "event_id", event.ID, "type", string(event.Type))
	if h.Metrics != nil {
		h.Metrics.RecordWebhookEvent(string(event.Type))
	}
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
