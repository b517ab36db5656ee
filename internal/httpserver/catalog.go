package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/santu/marketplace/internal/service"
	"github.com/santu/marketplace/internal/transport"
	"github.com/santu/marketplace/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	items, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return serviceError(l, "list_categories", err, "cannot load categories")
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": transport.Categories(items)})
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_products")

	items, err := h.Svc.ListProducts(ctx, c.QueryParam("sellerId"), c.QueryParam("sellerSlug"))
	if err != nil {
		return serviceError(l, "list_products", err, "cannot load products")
	}
	return c.JSON(http.StatusOK, echo.Map{"products": transport.Products(items)})
}
