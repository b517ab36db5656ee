// Package transport holds the JSON shapes the API accepts and returns.
// Responses are explicit projections; persisted models never leave the server.
package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/santu/marketplace/internal/models"
	"github.com/santu/marketplace/internal/repo"
)

type DeleteSellerRequest struct {
	ID string `json:"id"`
}

type SearchQuery struct {
	Q    string `query:"q"    json:"q"    validate:"required,max=200"`
	Page int    `query:"page" json:"page" validate:"gte=0"`
	Size int    `query:"size" json:"size" validate:"gte=0"`
}

type SellerView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	CreatedAt    time.Time `json:"createdAt"`
	ProductCount int64     `json:"productCount"`
}

type CreatedSellerView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

type DeletedSellerView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ProductCount int64  `json:"productCount"`
}

type CategoryView struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type ProductView struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	CategoryID    string           `json:"categoryId"`
	Images        []string         `json:"images"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Available     bool             `json:"available"`
	Quantity      int              `json:"quantity"`
	Likes         int              `json:"likes"`
	Comments      int              `json:"comments"`
	SellerID      string           `json:"sellerId"`
	CreatedAt     time.Time        `json:"createdAt"`
}

type UserView struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

type SessionView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func Sellers(items []repo.SellerWithCount) []SellerView {
	out := make([]SellerView, 0, len(items))
	for _, s := range items {
		out = append(out, SellerView{
			ID:           s.ID,
			Name:         s.Name,
			Slug:         s.Slug,
			CreatedAt:    s.CreatedAt,
			ProductCount: s.ProductCount,
		})
	}
	return out
}

func CreatedSeller(s *models.Seller) CreatedSellerView {
	return CreatedSellerView{ID: s.ID, Name: s.Name, Slug: s.Slug, CreatedAt: s.CreatedAt}
}

func DeletedSeller(s *repo.SellerWithCount) DeletedSellerView {
	return DeletedSellerView{ID: s.ID, Name: s.Name, Slug: s.Slug, ProductCount: s.ProductCount}
}

func Categories(items []models.Category) []CategoryView {
	out := make([]CategoryView, 0, len(items))
	for _, c := range items {
		out = append(out, CategoryView{ID: c.ID, Label: c.Label, Slug: c.Slug, Description: c.Description})
	}
	return out
}

func Product(p models.Product) ProductView {
	v := ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Images:      append([]string{}, p.Images...),
		Price:       p.Price,
		Available:   p.Available,
		Quantity:    p.Quantity,
		Likes:       p.Likes,
		Comments:    p.Comments,
		SellerID:    p.SellerID,
		CreatedAt:   p.CreatedAt,
	}
	if p.OriginalPrice.Valid {
		op := p.OriginalPrice.Decimal
		v.OriginalPrice = &op
	}
	return v
}

func Products(items []models.Product) []ProductView {
	out := make([]ProductView, 0, len(items))
	for _, p := range items {
		out = append(out, Product(p))
	}
	return out
}

func User(u *models.User) UserView {
	return UserView{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}

func Session(s *models.Session) SessionView {
	return SessionView{ID: s.ID, UserID: s.UserID, ExpiresAt: s.ExpiresAt}
}
