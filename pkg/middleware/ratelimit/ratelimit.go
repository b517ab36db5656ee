// Package ratelimit throttles abuse-prone endpoints per client IP.
package ratelimit

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type Config struct {
	PerMinute float64
	Burst     int
	ExpiresIn time.Duration
}

func DefaultConfig() Config {
	return Config{PerMinute: 30, Burst: 10, ExpiresIn: 5 * time.Minute}
}

// PerIP returns an in-memory token bucket limiter keyed by the caller's IP.
func PerIP(cfg Config) echo.MiddlewareFunc {
	def := DefaultConfig()
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = def.PerMinute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.ExpiresIn <= 0 {
		cfg.ExpiresIn = def.ExpiresIn
	}

	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.PerMinute / 60.0),
		Burst:     cfg.Burst,
		ExpiresIn: cfg.ExpiresIn,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}
