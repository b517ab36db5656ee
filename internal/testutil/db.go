// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/santu/marketplace/internal/models"
)

// NewDB opens a private in-memory SQLite database with foreign keys on and
// every model migrated. A single connection keeps the memory database alive.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := NewEmptyDB(t)
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

// NewEmptyDB is NewDB without migrations.
func NewEmptyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func SeedSeller(t *testing.T, db *gorm.DB, name, slug string, createdAt time.Time) models.Seller {
	t.Helper()
	s := models.Seller{ID: uuid.NewString(), Name: name, Slug: slug, CreatedAt: createdAt}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed seller: %v", err)
	}
	return s
}

func SeedCategory(t *testing.T, db *gorm.DB, id, label, slug string) models.Category {
	t.Helper()
	c := models.Category{ID: id, Label: label, Slug: slug, Description: label + " description"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedProduct(t *testing.T, db *gorm.DB, sellerID, categoryID, title string, createdAt time.Time) models.Product {
	t.Helper()
	p := models.Product{
		ID:          uuid.NewString(),
		Title:       title,
		Description: title + " description",
		CategoryID:  categoryID,
		Images:      models.StringList{"https://cdn.example/" + title + ".png"},
		Price:       decimal.RequireFromString("19.99"),
		Available:   true,
		Quantity:    3,
		SellerID:    sellerID,
		CreatedAt:   createdAt,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}
