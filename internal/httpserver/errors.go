package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/santu/marketplace/internal/service"
)

const internalErrorMessage = "internal server error"

// ErrorHandler renders every failure as {"error": "..."}. Errors that are not
// *echo.HTTPError never reach the client verbatim.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := internalErrorMessage
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		case nil:
			msg = http.StatusText(code)
		default:
			msg = fmt.Sprint(m)
		}
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, echo.Map{"error": msg})
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}

// serviceError classifies a service failure, logs it under op and returns the
// HTTP error to send. fallback is the message for unexpected failures.
func serviceError(l *slog.Logger, op string, err error, fallback string) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		l.Warn(op+"_error", "status", http.StatusBadRequest, "reason", ve.Error(), "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, service.ErrValidation):
		l.Warn(op+"_error", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn(op+"_error", "status", http.StatusUnauthorized, "reason", "invalid credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		l.Info(op+"_error", "status", http.StatusUnauthorized, "reason", "no active session", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(op+"_error", "status", http.StatusNotFound, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, detail(err, service.ErrNotFound))
	case errors.Is(err, service.ErrConflict):
		l.Warn(op+"_error", "status", http.StatusConflict, "reason", "conflict", "error", err)
		return echo.NewHTTPError(http.StatusConflict, detail(err, service.ErrConflict))
	default:
		l.Error(op+"_error", "status", http.StatusInternalServerError, "reason", fallback, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, fallback)
	}
}

// detail strips the sentinel prefix from "<sentinel>: <detail>".
func detail(err, sentinel error) string {
	msg := err.Error()
	if d, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return d
	}
	return msg
}

func badBody(l *slog.Logger, op string, err error) error {
	l.Warn(op+"_error", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}
