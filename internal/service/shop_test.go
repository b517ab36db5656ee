package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/santu/marketplace/internal/models"
	"github.com/santu/marketplace/internal/repo"
	"github.com/santu/marketplace/internal/testutil"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: event.(map[string]any)})
	return p.err
}

func newShopService(t *testing.T) (*ShopService, *gorm.DB, *recordingPublisher) {
	db := testutil.NewDB(t)
	pub := &recordingPublisher{}
	return &ShopService{Store: repo.New(db), Events: pub}, db, pub
}

func TestCreateSeller_DerivesSlugFromName(t *testing.T) {
	svc, _, pub := newShopService(t)

	seller, err := svc.CreateSeller(context.Background(), CreateSellerInput{Name: "  Électronique Démo! "})
	require.NoError(t, err)
	assert.Equal(t, "Électronique Démo!", seller.Name)
	assert.Equal(t, "electronique-demo", seller.Slug)
	assert.NotEmpty(t, seller.ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "seller_events", pub.events[0].Topic)
	assert.Equal(t, "seller_created", pub.events[0].Event["type"])
}

func TestCreateSeller_NormalizesSuppliedSlug(t *testing.T) {
	svc, _, _ := newShopService(t)

	seller, err := svc.CreateSeller(context.Background(), CreateSellerInput{Name: "Shop", Slug: "Ma Boutique"})
	require.NoError(t, err)
	assert.Equal(t, "ma-boutique", seller.Slug)
}

func TestCreateSeller_Validation(t *testing.T) {
	svc, _, _ := newShopService(t)
	ctx := context.Background()

	_, err := svc.CreateSeller(ctx, CreateSellerInput{Name: "   "})
	require.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	_, err = svc.CreateSeller(ctx, CreateSellerInput{Name: "!!!"})
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "slug", ve.Field)
}

func TestCreateSeller_ConflictOnExistingSlug(t *testing.T) {
	svc, db, pub := newShopService(t)
	testutil.SeedSeller(t, db, "Existing", "electronique-demo", time.Now())

	_, err := svc.CreateSeller(context.Background(), CreateSellerInput{Name: "Électronique démo"})
	require.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, pub.events)
}

type racingStore struct {
	ShopStore
	createErr error
}

func (r racingStore) SellerSlugExists(context.Context, string) (bool, error) { return false, nil }

func (r racingStore) CreateSeller(context.Context, *models.Seller) error { return r.createErr }

func TestCreateSeller_StoreErrors(t *testing.T) {
	ctx := context.Background()

	for name, raceErr := range map[string]error{
		"translated":        gorm.ErrDuplicatedKey,
		"postgres 23505":    fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_sellers_slug"}),
		"sqlite constraint": errors.New("constraint failed: UNIQUE constraint failed: sellers.slug (2067)"),
	} {
		t.Run(name, func(t *testing.T) {
			raced := &ShopService{Store: racingStore{createErr: raceErr}}
			_, err := raced.CreateSeller(ctx, CreateSellerInput{Name: "Shop"})
			require.ErrorIs(t, err, ErrConflict)
			assert.Contains(t, err.Error(), `"shop"`)
		})
	}

	broken := &ShopService{Store: racingStore{createErr: errors.New("connection reset")}}
	_, err := broken.CreateSeller(ctx, CreateSellerInput{Name: "Shop"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrConflict)
	require.NotErrorIs(t, err, ErrValidation)
}

func TestDeleteSeller(t *testing.T) {
	svc, db, pub := newShopService(t)
	ctx := context.Background()

	s := testutil.SeedSeller(t, db, "Shop", "shop", time.Now())
	cat := testutil.SeedCategory(t, db, "cat1", "Mode", "mode")
	testutil.SeedProduct(t, db, s.ID, cat.ID, "p1", time.Now())
	testutil.SeedProduct(t, db, s.ID, cat.ID, "p2", time.Now())

	deleted, err := svc.DeleteSeller(ctx, " "+s.ID+" ")
	require.NoError(t, err)
	assert.Equal(t, s.ID, deleted.ID)
	assert.Equal(t, "shop", deleted.Slug)
	assert.EqualValues(t, 2, deleted.ProductCount)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "seller_deleted", pub.events[0].Event["type"])

	_, err = svc.DeleteSeller(ctx, s.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.DeleteSeller(ctx, "  ")
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateSeller_PublishFailureDoesNotFail(t *testing.T) {
	svc, _, pub := newShopService(t)
	pub.err = errors.New("kafka down")

	_, err := svc.CreateSeller(context.Background(), CreateSellerInput{Name: "Shop"})
	require.NoError(t, err)
}
