package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/santu/marketplace/internal/service"
	"github.com/santu/marketplace/pkg/metrics"
	loggingmw "github.com/santu/marketplace/pkg/middleware/logging"
)

// New builds the echo instance with the common middleware chain and every route.
// collector may be nil.
func New(logger *slog.Logger, collector *metrics.Collector, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = service.Validator{}

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	if collector != nil {
		e.Use(collector.Middleware())
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.TrustedOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	Register(e, d)
	return e
}
