package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/santu/marketplace/internal/middleware/auth"
	"github.com/santu/marketplace/internal/middleware/csrf"
	"github.com/santu/marketplace/internal/upload"
)

type Deps struct {
	Shops   *ShopHTTP
	Catalog *CatalogHTTP
	Search  *SearchHTTP
	Upload  *UploadHTTP
	Auth    *AuthHTTP
	Webhook *WebhookHTTP

	Guard          *auth.Guard
	TrustedOrigins []string
	// RateLimit guards sign-up, sign-in and upload. Nil disables it.
	RateLimit echo.MiddlewareFunc
	Ready     func(ctx context.Context) error
	Metrics   http.Handler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	limit := d.RateLimit
	if limit == nil {
		limit = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	api := e.Group("/api")

	api.GET("/categories", d.Catalog.ListCategories)
	api.GET("/products", d.Catalog.ListProducts)
	if d.Search != nil {
		api.GET("/products/search", d.Search.SearchProducts)
	}

	api.POST("/upload", d.Upload.Upload, limit, echomw.BodyLimit(bodyLimit(upload.MaxBytes)))

	shops := api.Group("/shops", d.Guard.Require(auth.StaffOnly()))
	shops.GET("", d.Shops.ListSellers)
	shops.POST("/create", d.Shops.CreateSeller)
	shops.POST("/delete", d.Shops.DeleteSeller)

	authAPI := api.Group("/auth", csrf.TrustedOrigins(csrf.Config{TrustedOrigins: d.TrustedOrigins}))
	authAPI.POST("/sign-up", d.Auth.SignUp, limit)
	authAPI.POST("/sign-in", d.Auth.SignIn, limit)
	authAPI.POST("/sign-out", d.Auth.SignOut)
	authAPI.GET("/session", d.Auth.Session)

	api.POST("/webhooks/stripe", d.Webhook.Stripe, echomw.BodyLimit(bodyLimit(maxWebhookBody)))
}

// bodyLimit renders a byte count in the unit syntax echo's BodyLimit expects.
func bodyLimit(n int64) string {
	const mb = 1 << 20
	if n%mb == 0 {
		return strconv.FormatInt(n/mb, 10) + "M"
	}
	return strconv.FormatInt(n, 10)
}
