package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleAdmin    Role = "ADMIN"
	RoleSeller   Role = "SELLER"
	RoleCustomer Role = "CUSTOMER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleSeller, RoleCustomer:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"              json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"                     json:"email"`
	Name         string    `gorm:"not null;default:''"                      json:"name"`
	PasswordHash string    `gorm:"not null"                                 json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null;default:CUSTOMER" json:"role"`
	CreatedAt    time.Time `gorm:"not null"                                 json:"createdAt"`
}

// Session rows are owned by the authentication service; the guard only reads them.
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"userId"`
	ExpiresAt time.Time `gorm:"index;not null"              json:"expiresAt"`
	Revoked   bool      `gorm:"not null"                    json:"-"`
	UserAgent string    `gorm:"not null;default:''"         json:"userAgent,omitempty"`
	IPAddress string    `gorm:"not null;default:''"         json:"ipAddress,omitempty"`
	CreatedAt time.Time `gorm:"not null"                    json:"createdAt"`
}

func (s *Session) Active(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}

type Seller struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Name      string    `gorm:"not null"`
	Slug      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	Products  []Product `gorm:"constraint:OnDelete:CASCADE;"`
}

type Category struct {
	ID          string `gorm:"primaryKey;type:varchar(32)"`
	Label       string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string `gorm:"not null;default:''"`
}

type Product struct {
	ID            string              `gorm:"primaryKey;type:varchar(36)"`
	Title         string              `gorm:"not null"`
	Description   string              `gorm:"not null;default:''"`
	CategoryID    string              `gorm:"type:varchar(32);index;not null"`
	Images        StringList          `gorm:"type:text;not null"`
	Price         decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	OriginalPrice decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	Available     bool                `gorm:"not null"`
	Quantity      int                 `gorm:"not null"`
	Likes         int                 `gorm:"not null"`
	Comments      int                 `gorm:"not null"`
	SellerID      string              `gorm:"type:varchar(36);index;not null"`
	CreatedAt     time.Time           `gorm:"index;not null"`
}

// All returns every model in dependency order for migrations.
func All() []any {
	return []any{&User{}, &Session{}, &Category{}, &Seller{}, &Product{}}
}
