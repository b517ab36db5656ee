package service

import (
	"context"
	"strings"

	"github.com/santu/marketplace/internal/models"
	"github.com/santu/marketplace/internal/repo"
)

type CatalogStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context, f repo.ProductFilter) ([]models.Product, error)
}

type CatalogService struct {
	Store CatalogStore
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Store.ListCategories(ctx)
}

// ListProducts honours a single filter: sellerID when present, else sellerSlug.
func (s *CatalogService) ListProducts(ctx context.Context, sellerID, sellerSlug string) ([]models.Product, error) {
	f := repo.ProductFilter{SellerID: strings.TrimSpace(sellerID)}
	if f.SellerID == "" {
		f.SellerSlug = strings.TrimSpace(sellerSlug)
	}
	return s.Store.ListProducts(ctx, f)
}
