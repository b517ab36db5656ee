package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/santu/marketplace/internal/models"
	"github.com/santu/marketplace/internal/repo"
	"github.com/santu/marketplace/internal/testutil"
	"github.com/santu/marketplace/pkg/hash"
	"github.com/santu/marketplace/pkg/tokens"
)

var testSecret = []byte("test-session-secret")

func newAuthService(t *testing.T) (*AuthService, *gorm.DB, *recordingPublisher) {
	db := testutil.NewDB(t)
	pub := &recordingPublisher{}
	return &AuthService{Store: repo.New(db), Secret: testSecret, TTL: time.Hour, Events: pub}, db, pub
}

func TestSignUp(t *testing.T) {
	svc, _, pub := newAuthService(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{Email: " Alice@Example.COM ", Password: "correct-horse", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.True(t, hash.CheckPassword(user.PasswordHash, "correct-horse"))

	require.Len(t, pub.events, 1)
	assert.Equal(t, "user_events", pub.events[0].Topic)
	assert.Equal(t, "user_signed_up", pub.events[0].Event["type"])

	_, err = svc.SignUp(ctx, SignUpInput{Email: "alice@example.com", Password: "another-pass"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestSignUp_Validation(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    SignUpInput
		field string
	}{
		{"missing email", SignUpInput{Password: "long-enough"}, "email"},
		{"bad email", SignUpInput{Email: "not-an-email", Password: "long-enough"}, "email"},
		{"missing password", SignUpInput{Email: "a@b.co"}, "password"},
		{"short password", SignUpInput{Email: "a@b.co", Password: "short"}, "password"},
		{"password over bcrypt limit", SignUpInput{Email: "a@b.co", Password: strings.Repeat("x", 100)}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tc.in)
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestSignIn_ResolveSession(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{Email: "bob@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, SignInInput{Email: "bob@example.com", Password: "wrong-password"}, ClientMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, SignInInput{Email: "nobody@example.com", Password: "whatever1"}, ClientMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.SignIn(ctx, SignInInput{Email: "BOB@example.com", Password: "hunter2hunter2"}, ClientMeta{UserAgent: "go-test"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, user.ID, res.User.ID)
	assert.Equal(t, "go-test", res.Session.UserAgent)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: res.Token})
	session, err := svc.ResolveSession(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, res.Session.ID, session.ID)
	assert.Equal(t, user.ID, session.UserID)

	bearer := httptest.NewRequest(http.MethodGet, "/", nil)
	bearer.Header.Set("Authorization", "Bearer "+res.Token)
	_, err = svc.ResolveSession(ctx, bearer)
	require.NoError(t, err)

	role, err := svc.UserRole(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, role)

	_, err = svc.UserRole(ctx, "missing-user")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionFromToken_Rejects(t *testing.T) {
	svc, db, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "carol@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	res, err := svc.SignIn(ctx, SignInInput{Email: "carol@example.com", Password: "hunter2hunter2"}, ClientMeta{})
	require.NoError(t, err)

	_, err = svc.SessionFromToken(ctx, "")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.SessionFromToken(ctx, "not-a-jwt")
	require.ErrorIs(t, err, ErrUnauthenticated)

	forged, err := tokens.SignSession(res.User.ID, res.Session.ID, time.Now(), time.Now().Add(time.Hour), []byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.SessionFromToken(ctx, forged)
	require.ErrorIs(t, err, ErrUnauthenticated)

	unknown, err := tokens.SignSession(res.User.ID, "missing-session", time.Now(), time.Now().Add(time.Hour), testSecret)
	require.NoError(t, err)
	_, err = svc.SessionFromToken(ctx, unknown)
	require.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", res.Session.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)
	_, err = svc.SessionFromToken(ctx, res.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSignOut_RevokesSession(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "dave@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	res, err := svc.SignIn(ctx, SignInInput{Email: "dave@example.com", Password: "hunter2hunter2"}, ClientMeta{})
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, res.Token))
	_, err = svc.SessionFromToken(ctx, res.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, svc.SignOut(ctx, ""))
	require.NoError(t, svc.SignOut(ctx, "garbage"))
}

func TestEnsureOwner(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	owner, err := svc.EnsureOwner(ctx, "owner@example.com", "owner-password")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, owner.Role)

	again, err := svc.EnsureOwner(ctx, "owner@example.com", "owner-password")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, again.ID)

	customer, err := svc.SignUp(ctx, SignUpInput{Email: "eve@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	promoted, err := svc.EnsureOwner(ctx, "eve@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, promoted.ID)
	role, err := svc.UserRole(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, role)

	_, err = svc.User(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
