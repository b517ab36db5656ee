package repo

import (
	"context"

	"github.com/santu/marketplace/internal/models"
)

type ProductFilter struct {
	SellerID   string
	SellerSlug string
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	items := []models.Category{}
	if err := r.DB.WithContext(ctx).Order("label ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListProducts applies at most one filter; SellerID wins over SellerSlug.
func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Product{})
	switch {
	case f.SellerID != "":
		tx = tx.Where("seller_id = ?", f.SellerID)
	case f.SellerSlug != "":
		sellerIDs := r.DB.WithContext(ctx).Model(&models.Seller{}).Select("id").Where("slug = ?", f.SellerSlug)
		tx = tx.Where("seller_id IN (?)", sellerIDs)
	}

	items := []models.Product{}
	if err := tx.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	items := []models.Product{}
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
