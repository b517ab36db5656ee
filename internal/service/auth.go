package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/santu/marketplace/internal/models"
	"github.com/santu/marketplace/internal/mykafka"
	"github.com/santu/marketplace/internal/repo"
	"github.com/santu/marketplace/pkg/hash"
	"github.com/santu/marketplace/pkg/logging"
	"github.com/santu/marketplace/pkg/tokens"
)

const SessionCookie = "santu.session_token"

type AuthStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserRole(ctx context.Context, id string) (models.Role, error)
	SetUserRole(ctx context.Context, id string, role models.Role) error
	CreateSession(ctx context.Context, s *models.Session) error
	SessionByID(ctx context.Context, id string) (*models.Session, error)
	RevokeSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, userID string, now time.Time) (int64, error)
}

type AuthService struct {
	Store  AuthStore
	Secret []byte
	TTL    time.Duration
	Events EventPublisher
	Now    func() time.Time
}

type SignUpInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"max=100"`
}

type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type SignInResult struct {
	User    *models.User
	Session *models.Session
	Token   string
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return s.createUser(ctx, in, models.RoleCustomer)
}

func (s *AuthService) createUser(ctx context.Context, in SignUpInput, role models.Role) (*models.User, error) {
	if _, err := s.Store.UserByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if errors.Is(err, hash.ErrTooLong) {
		return nil, invalid("password", "must be at most 72 bytes")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: pwHash,
		Role:         role,
		CreatedAt:    s.now(),
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.ID, map[string]any{
		"type":   "user_signed_up",
		"userID": user.ID,
		"role":   string(user.Role),
	})
	return user, nil
}

func (s *AuthService) SignIn(ctx context.Context, in SignInInput, meta ClientMeta) (*SignInResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_in")

	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.Store.UserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if n, err := s.Store.DeleteExpiredSessions(ctx, user.ID, now); err != nil {
		l.Warn("session_cleanup_error", "user_id", user.ID, "error", err)
	} else if n > 0 {
		l.Debug("session_cleanup", "user_id", user.ID, "removed", n)
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.TTL),
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
	}
	token, err := tokens.SignSession(user.ID, session.ID, now, session.ExpiresAt, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	if err := s.Store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &SignInResult{User: user, Session: session, Token: token}, nil
}

// SignOut revokes the session behind token. Unknown or invalid tokens are ignored.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := tokens.SessionClaimsFromToken(token, s.Secret)
	if err != nil {
		return nil
	}
	if err := s.Store.RevokeSession(ctx, claims.ID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// TokenFromRequest reads the session cookie, falling back to a bearer token.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	authz := r.Header.Get("Authorization")
	if len(authz) > 7 && strings.EqualFold(authz[:7], "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return ""
}

func (s *AuthService) ResolveSession(ctx context.Context, r *http.Request) (*models.Session, error) {
	return s.SessionFromToken(ctx, TokenFromRequest(r))
}

// SessionFromToken returns an active session or an error wrapping ErrUnauthenticated.
func (s *AuthService) SessionFromToken(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no session token", ErrUnauthenticated)
	}
	claims, err := tokens.SessionClaimsFromToken(token, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	session, err := s.Store.SessionByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session not found", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: session subject mismatch", ErrUnauthenticated)
	}
	if !session.Active(s.now()) {
		return nil, fmt.Errorf("%w: session expired or revoked", ErrUnauthenticated)
	}
	return session, nil
}

// UserRole treats a missing user as an ended session rather than a lookup failure.
func (s *AuthService) UserRole(ctx context.Context, userID string) (models.Role, error) {
	role, err := s.Store.UserRole(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: user %q no longer exists", ErrUnauthenticated, userID)
	}
	return role, err
}

func (s *AuthService) User(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q does not exist", ErrNotFound, userID)
		}
		return nil, err
	}
	return u, nil
}

// EnsureOwner creates an OWNER account, or promotes the existing account with that email.
func (s *AuthService) EnsureOwner(ctx context.Context, email, password string) (*models.User, error) {
	in := SignUpInput{Email: normalizeEmail(email), Password: password, Name: "Owner"}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.Store.UserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if existing.Role != models.RoleOwner {
			if err := s.Store.SetUserRole(ctx, existing.ID, models.RoleOwner); err != nil {
				return nil, fmt.Errorf("promote owner: %w", err)
			}
			existing.Role = models.RoleOwner
		}
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.createUser(ctx, in, models.RoleOwner)
	default:
		return nil, fmt.Errorf("lookup user: %w", err)
	}
}
