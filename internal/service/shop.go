package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/santu/marketplace/internal/models"
	"github.com/santu/marketplace/internal/mykafka"
	"github.com/santu/marketplace/internal/repo"
	"github.com/santu/marketplace/internal/slug"
	"github.com/santu/marketplace/pkg/logging"
)

type ShopStore interface {
	ListSellers(ctx context.Context) ([]repo.SellerWithCount, error)
	SellerSlugExists(ctx context.Context, slug string) (bool, error)
	CreateSeller(ctx context.Context, s *models.Seller) error
	SellerWithProductCount(ctx context.Context, id string) (*repo.SellerWithCount, error)
	DeleteSeller(ctx context.Context, id string) error
}

type ShopService struct {
	Store  ShopStore
	Events EventPublisher
	Now    func() time.Time
}

type CreateSellerInput struct {
	Name string `json:"name" validate:"required,max=120"`
	Slug string `json:"slug" validate:"max=120"`
}

func (s *ShopService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ShopService) ListSellers(ctx context.Context) ([]repo.SellerWithCount, error) {
	return s.Store.ListSellers(ctx)
}

// CreateSeller derives the slug from the name unless one is supplied. The
// existence check is best effort; the unique index settles concurrent creators.
func (s *ShopService) CreateSeller(ctx context.Context, in CreateSellerInput) (*models.Seller, error) {
	l := logging.FromContext(ctx).With("svc", "shop.create_seller")

	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	source := in.Slug
	if source == "" {
		source = in.Name
	}
	sellerSlug := slug.Normalize(source)
	if sellerSlug == "" {
		return nil, invalid("slug", "cannot be derived from the given value")
	}

	exists, err := s.Store.SellerSlugExists(ctx, sellerSlug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: slug %q is already taken", ErrConflict, sellerSlug)
	}

	seller := &models.Seller{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Slug:      sellerSlug,
		CreatedAt: s.now(),
	}
	if err := s.Store.CreateSeller(ctx, seller); err != nil {
		if repo.IsUniqueViolation(err) {
			l.Warn("create_seller_race", "slug", sellerSlug, "error", err)
			return nil, fmt.Errorf("%w: slug %q is already taken", ErrConflict, sellerSlug)
		}
		return nil, fmt.Errorf("create seller: %w", err)
	}

	publish(ctx, s.Events, mykafka.TopicSellerEvents, seller.ID, map[string]any{
		"type":     "seller_created",
		"sellerID": seller.ID,
		"name":     seller.Name,
		"slug":     seller.Slug,
	})
	return seller, nil
}

// DeleteSeller returns the seller as observed right before deletion,
// including the product count at that moment.
func (s *ShopService) DeleteSeller(ctx context.Context, id string) (*repo.SellerWithCount, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid("id", "is required")
	}

	snapshot, err := s.Store.SellerWithProductCount(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: seller %q does not exist", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load seller: %w", err)
	}

	if err := s.Store.DeleteSeller(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: seller %q does not exist", ErrNotFound, id)
		}
		return nil, fmt.Errorf("delete seller: %w", err)
	}

	publish(ctx, s.Events, mykafka.TopicSellerEvents, id, map[string]any{
		"type":         "seller_deleted",
		"sellerID":     id,
		"slug":         snapshot.Slug,
		"productCount": snapshot.ProductCount,
	})
	return snapshot, nil
}
