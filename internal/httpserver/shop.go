package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/santu/marketplace/internal/service"
	"github.com/santu/marketplace/internal/transport"
	"github.com/santu/marketplace/pkg/logging"
)

type ShopHTTP struct {
	Svc *service.ShopService
}

func (h *ShopHTTP) ListSellers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.list_sellers")

	sellers, err := h.Svc.ListSellers(ctx)
	if err != nil {
		return serviceError(l, "list_sellers", err, "cannot load sellers")
	}
	return c.JSON(http.StatusOK, echo.Map{"sellers": transport.Sellers(sellers)})
}

func (h *ShopHTTP) CreateSeller(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.create_seller")

	var req service.CreateSellerInput
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_seller", err)
	}

	seller, err := h.Svc.CreateSeller(ctx, req)
	if err != nil {
		return serviceError(l, "create_seller", err, "cannot create seller")
	}

	l.Info("create_seller_success", "seller_id", seller.ID, "slug", seller.Slug)
	return c.JSON(http.StatusCreated, echo.Map{
		"seller":  transport.CreatedSeller(seller),
		"message": "Seller created",
	})
}

func (h *ShopHTTP) DeleteSeller(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.delete_seller")

	var req transport.DeleteSellerRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "delete_seller", err)
	}

	deleted, err := h.Svc.DeleteSeller(ctx, req.ID)
	if err != nil {
		return serviceError(l, "delete_seller", err, "cannot delete seller")
	}

	l.Info("delete_seller_success", "seller_id", deleted.ID, "product_count", deleted.ProductCount)
	return c.JSON(http.StatusOK, echo.Map{
		"deletedSeller": transport.DeletedSeller(deleted),
		"message":       "Seller deleted",
	})
}
