package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/portfolio-backend/internal/logger"
	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository"
)

// Context keys set by Session.
const (
	UserKey   = "user"
	UserIDKey = "user_id"
)

// SessionVerifier resolves a raw session token to a user id.
type SessionVerifier interface {
	VerifySession(raw string) (string, error)
}

// UserLookup is the part of the user repository Session needs.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Session authenticates a request from the session cookie, falling back to
// an Authorization: Bearer header.  A missing, invalid or expired token, or
// one whose user no longer exists, ends the request with 401 before the
// handler runs.
func Session(cookieName string, tokens SessionVerifier, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := sessionToken(c, cookieName)
			if raw == "" {
				return unauthorized(c)
			}
			uid, err := tokens.VerifySession(raw)
			if err != nil {
				return unauthorized(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, uid)
			if errors.Is(err, repository.ErrNotFound) {
				return unauthorized(c)
			}
			if err != nil {
				logger.Log.WithError(err).Error("session: user lookup failed")
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
			}

			c.Set(UserKey, u)
			c.Set(UserIDKey, uid)
			return next(c)
		}
	}
}

func sessionToken(c echo.Context, cookieName string) string {
	if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please log in"})
}

// CurrentUser returns the user Session attached, or nil.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(UserKey).(*model.User)
	return u
}
