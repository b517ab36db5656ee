package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/santu/marketplace/internal/models"
)

type SellerWithCount struct {
	models.Seller
	ProductCount int64
}

func (r *GormRepo) ListSellers(ctx context.Context) ([]SellerWithCount, error) {
	var sellers []models.Seller
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&sellers).Error; err != nil {
		return nil, err
	}
	if len(sellers) == 0 {
		return []SellerWithCount{}, nil
	}

	ids := make([]string, len(sellers))
	for i, s := range sellers {
		ids[i] = s.ID
	}
	counts, err := r.productCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]SellerWithCount, len(sellers))
	for i, s := range sellers {
		out[i] = SellerWithCount{Seller: s, ProductCount: counts[s.ID]}
	}
	return out, nil
}

func (r *GormRepo) productCounts(ctx context.Context, sellerIDs []string) (map[string]int64, error) {
	var rows []struct {
		SellerID string
		N        int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Select("seller_id, COUNT(*) AS n").
		Where("seller_id IN ?", sellerIDs).
		Group("seller_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SellerID] = row.N
	}
	return counts, nil
}

func (r *GormRepo) SellerSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Seller{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateSeller(ctx context.Context, s *models.Seller) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

// SellerWithProductCount returns gorm.ErrRecordNotFound for an unknown id.
func (r *GormRepo) SellerWithProductCount(ctx context.Context, id string) (*SellerWithCount, error) {
	var seller models.Seller
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&seller).Error; err != nil {
		return nil, err
	}
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("seller_id = ?", id).
		Count(&count).Error; err != nil {
		return nil, err
	}
	return &SellerWithCount{Seller: seller, ProductCount: count}, nil
}

// DeleteSeller leaves dependent products to the foreign key's ON DELETE CASCADE.
func (r *GormRepo) DeleteSeller(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Seller{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
