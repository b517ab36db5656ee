// Package auth gates routes on an authenticated session and the caller's role.
package auth

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/santu/marketplace/internal/models"
	"github.com/santu/marketplace/internal/service"
	"github.com/santu/marketplace/pkg/logging"
)

const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxSessionID = "session_id"
)

type SessionResolver interface {
	ResolveSession(ctx context.Context, r *http.Request) (*models.Session, error)
}

// RoleLookup reports the caller's role. An error matching
// service.ErrUnauthenticated means the session's user is gone.
type RoleLookup interface {
	UserRole(ctx context.Context, userID string) (models.Role, error)
}

// Policy lists the roles a route admits and the messages for each rejection.
type Policy struct {
	AllowedRoles   []models.Role
	OnUnauthorized string
	OnForbidden    string
}

type Guard struct {
	Sessions SessionResolver
	Roles    RoleLookup
}

func NewGuard(sessions SessionResolver, roles RoleLookup) *Guard {
	return &Guard{Sessions: sessions, Roles: roles}
}

// StaffOnly admits OWNER and ADMIN.
func StaffOnly() Policy {
	return Policy{
		AllowedRoles:   []models.Role{models.RoleOwner, models.RoleAdmin},
		OnUnauthorized: "authentication required",
		OnForbidden:    "owner or admin role required",
	}
}

func (g *Guard) Require(p Policy) echo.MiddlewareFunc {
	unauthorized := p.OnUnauthorized
	if unauthorized == "" {
		unauthorized = http.StatusText(http.StatusUnauthorized)
	}
	forbidden := p.OnForbidden
	if forbidden == "" {
		forbidden = http.StatusText(http.StatusForbidden)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			session, err := g.Sessions.ResolveSession(ctx, c.Request())
			if err != nil || session == nil {
				l.Debug("guard_rejected", "status", http.StatusUnauthorized, "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorized)
			}

			role, err := g.Roles.UserRole(ctx, session.UserID)
			if errors.Is(err, service.ErrUnauthenticated) {
				l.Info("guard_rejected", "status", http.StatusUnauthorized, "user_id", session.UserID, "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorized)
			}
			if err != nil {
				l.Warn("guard_role_lookup_error", "status", http.StatusForbidden, "user_id", session.UserID, "error", err)
				return echo.NewHTTPError(http.StatusForbidden, forbidden)
			}
			if !slices.Contains(p.AllowedRoles, role) {
				l.Info("guard_rejected", "status", http.StatusForbidden, "user_id", session.UserID, "role", role)
				return echo.NewHTTPError(http.StatusForbidden, forbidden)
			}

			c.Set(CtxUserID, session.UserID)
			c.Set(CtxRole, role)
			c.Set(CtxSessionID, session.ID)
			return next(c)
		}
	}
}

// UserID returns the id stored by a passing guard.
func UserID(c echo.Context) string {
	id, _ := c.Get(CtxUserID).(string)
	return id
}
