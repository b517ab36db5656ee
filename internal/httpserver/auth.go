package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/santu/marketplace/internal/service"
	"github.com/santu/marketplace/internal/transport"
	"github.com/santu/marketplace/pkg/logging"
)

type AuthHTTP struct {
	Svc           *service.AuthService
	SecureCookies bool
}

func (h *AuthHTTP) sessionCookie(value string, expires time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     service.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		ck.Expires = time.Unix(0, 0)
		ck.MaxAge = -1
	}
	return ck
}

func (h *AuthHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_up")

	var req service.SignUpInput
	if err := c.Bind(&req); err != nil {
		return badBody(l, "sign_up", err)
	}

	user, err := h.Svc.SignUp(ctx, req)
	if err != nil {
		return serviceError(l, "sign_up", err, "cannot create account")
	}

	l.Info("sign_up_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{"user": transport.User(user)})
}

func (h *AuthHTTP) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_in")

	var req service.SignInInput
	if err := c.Bind(&req); err != nil {
		return badBody(l, "sign_in", err)
	}

	res, err := h.Svc.SignIn(ctx, req, service.ClientMeta{
		UserAgent: c.Request().UserAgent(),
		IPAddress: c.RealIP(),
	})
	if err != nil {
		return serviceError(l, "sign_in", err, "cannot sign in")
	}

	c.SetCookie(h.sessionCookie(res.Token, res.Session.ExpiresAt))
	l.Info("sign_in_success", "user_id", res.User.ID, "session_id", res.Session.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"user":      transport.User(res.User),
		"token":     res.Token,
		"expiresAt": res.Session.ExpiresAt,
	})
}

func (h *AuthHTTP) SignOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_out")

	err := h.Svc.SignOut(ctx, service.TokenFromRequest(c.Request()))
	c.SetCookie(h.sessionCookie("", time.Time{}))
	if err != nil {
		return serviceError(l, "sign_out", err, "cannot sign out")
	}

	l.Info("sign_out_success")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *AuthHTTP) Session(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.session")

	session, err := h.Svc.ResolveSession(ctx, c.Request())
	if err != nil {
		return serviceError(l, "get_session", err, "cannot load session")
	}
	user, err := h.Svc.User(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			err = service.ErrUnauthenticated
		}
		return serviceError(l, "get_session", err, "cannot load session")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"session": transport.Session(session),
		"user":    transport.User(user),
	})
}
