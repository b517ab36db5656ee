package seed

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/santu/marketplace/internal/models"
	"github.com/santu/marketplace/internal/slug"
	"github.com/santu/marketplace/internal/testutil"
)

func TestNewID(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	seen := map[string]bool{}
	for range 100 {
		id := NewID(r)
		require.Len(t, id, idLength)
		for _, ch := range id {
			assert.Contains(t, idAlphabet, string(ch))
		}
		seen[id] = true
	}
	assert.Len(t, seen, 100)
	assert.Len(t, NewID(nil), idLength)
}

func TestRun_FirstRunToleratesMissingTable(t *testing.T) {
	db := testutil.NewEmptyDB(t)
	s := &Seeder{DB: db, Rand: rand.New(rand.NewPCG(3, 4))}

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.TableMissing)
	assert.Len(t, report.Inserted, len(Categories))

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, len(Categories), count)
}

func TestRun_ReplacesExisting(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedCategory(t, db, "old", "Ancienne", "ancienne")
	s := &Seeder{DB: db}

	first, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, first.TableMissing)
	assert.EqualValues(t, 1, first.Cleared)

	second, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, len(Categories), second.Cleared)

	var cats []models.Category
	require.NoError(t, db.Find(&cats).Error)
	require.Len(t, cats, len(Categories))
	for _, c := range cats {
		assert.NotEqual(t, "old", c.ID)
	}
}

func TestCategorySlugsAreNormalized(t *testing.T) {
	for _, c := range Categories {
		assert.Equal(t, slug.Normalize(c.Label), c.Slug)
	}
}

func TestRun_AbortsOnOtherErrors(t *testing.T) {
	db := testutil.NewDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = (&Seeder{DB: db}).Run(context.Background())
	require.Error(t, err)
}

func TestRun_FailedInsertKeepsExisting(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedCategory(t, db, "old", "Ancienne", "ancienne")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("fail_categories", func(tx *gorm.DB) {
		if tx.Statement.Table == "categories" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := (&Seeder{DB: db}).Run(context.Background())
	require.ErrorContains(t, err, "insert categories: disk full")

	var cats []models.Category
	require.NoError(t, db.Find(&cats).Error)
	require.Len(t, cats, 1)
	assert.Equal(t, "old", cats[0].ID)
}
