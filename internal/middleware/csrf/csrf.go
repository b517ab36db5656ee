// Package csrf rejects state-changing requests from untrusted browser origins.
package csrf

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/santu/marketplace/pkg/logging"
)

type Config struct {
	TrustedOrigins []string
	// RequireOrigin rejects requests that carry neither Origin nor Referer.
	RequireOrigin bool
}

// TrustedOrigins checks Origin (or Referer) on unsafe methods against the
// configured origins. Requests from non-browser clients usually send neither
// header and pass unless RequireOrigin is set.
func TrustedOrigins(cfg Config) echo.MiddlewareFunc {
	trusted := make(map[string]struct{}, len(cfg.TrustedOrigins))
	for _, o := range cfg.TrustedOrigins {
		if n := normalize(o); n != "" {
			trusted[n] = struct{}{}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			origin := req.Header.Get(echo.HeaderOrigin)
			if origin == "" {
				origin = req.Header.Get("Referer")
			}
			if origin == "" {
				if cfg.RequireOrigin {
					return echo.NewHTTPError(http.StatusForbidden, "missing origin")
				}
				return next(c)
			}

			if _, ok := trusted[normalize(origin)]; !ok {
				logging.FromContext(req.Context()).Warn("untrusted_origin", "status", http.StatusForbidden, "origin", origin)
				return echo.NewHTTPError(http.StatusForbidden, "invalid origin")
			}
			return next(c)
		}
	}
}

// normalize reduces an origin or referer URL to scheme://host.
func normalize(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}
