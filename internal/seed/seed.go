// Package seed loads the reference categories into a fresh or existing database.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"gorm.io/gorm"

	"github.com/santu/marketplace/internal/models"
	"github.com/santu/marketplace/internal/repo"
)

const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 32
)

type CategorySeed struct {
	Label       string
	Slug        string
	Description string
}

var Categories = []CategorySeed{
	{"Mode", "mode", "Vêtements, chaussures et accessoires"},
	{"Électronique", "electronique", "Téléphones, ordinateurs et objets connectés"},
	{"Maison", "maison", "Décoration, mobilier et art de la table"},
	{"Beauté", "beaute", "Soins, maquillage et parfums"},
	{"Sport", "sport", "Équipements et vêtements de sport"},
	{"Livres", "livres", "Romans, bandes dessinées et manuels"},
	{"Alimentation", "alimentation", "Épicerie fine et produits locaux"},
	{"Artisanat", "artisanat", "Créations faites main"},
}

type Report struct {
	Cleared      int64
	TableMissing bool
	Inserted     []models.Category
}

type Seeder struct {
	DB   *gorm.DB
	Rand *rand.Rand
}

// NewID draws idLength symbols uniformly from a 62-symbol alphabet. Ids are
// not secret and collisions are not checked.
func NewID(r *rand.Rand) string {
	var b strings.Builder
	b.Grow(idLength)
	for range idLength {
		if r != nil {
			b.WriteByte(idAlphabet[r.IntN(len(idAlphabet))])
		} else {
			b.WriteByte(idAlphabet[rand.IntN(len(idAlphabet))])
		}
	}
	return b.String()
}

// Run replaces the category table contents. A missing table is expected on
// the first run; any other failure aborts before inserting. The clear and the
// insert commit together, so a failed run keeps the previous categories.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	if err := s.DB.WithContext(ctx).Exec("SELECT count(*) FROM categories").Error; err != nil {
		if !repo.IsMissingTable(err) {
			return nil, fmt.Errorf("clear categories: %w", err)
		}
		report.TableMissing = true
	}

	if err := repo.New(s.DB).Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	rows := make([]models.Category, 0, len(Categories))
	for _, c := range Categories {
		rows = append(rows, models.Category{
			ID:          NewID(s.Rand),
			Label:       c.Label,
			Slug:        c.Slug,
			Description: c.Description,
		})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("DELETE FROM categories")
		if res.Error != nil {
			return fmt.Errorf("clear categories: %w", res.Error)
		}
		report.Cleared = res.RowsAffected
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.Inserted = rows
	return report, nil
}
