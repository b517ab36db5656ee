package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/santu/marketplace/internal/search"
	"github.com/santu/marketplace/internal/transport"
	"github.com/santu/marketplace/pkg/logging"
)

type SearchHTTP struct {
	Svc *search.Service
}

func (h *SearchHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.products")

	var q transport.SearchQuery
	if err := c.Bind(&q); err != nil {
		return badBody(l, "search_products", err)
	}
	q.Q = strings.TrimSpace(q.Q)
	if err := c.Validate(&q); err != nil {
		return serviceError(l, "search_products", err, "search failed")
	}

	res, err := h.Svc.Search(ctx, q.Q, q.Page, q.Size)
	if err != nil {
		l.Error("search_products_error", "status", http.StatusInternalServerError, "reason", "search backend", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	size := int64(res.Page.Size)
	return c.JSON(http.StatusOK, echo.Map{
		"total":    res.Total,
		"products": transport.Products(res.Products),
		"meta": echo.Map{
			"page":       res.Page.Number,
			"size":       res.Page.Size,
			"totalPages": (res.Total + size - 1) / size,
			"hasPrev":    res.Page.Number > 1,
			"hasNext":    int64(res.Page.From)+size < res.Total,
		},
	})
}
