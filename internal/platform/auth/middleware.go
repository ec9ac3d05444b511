package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const identityKey contextKey = "identity"

// OptionalAuth resolves a Bearer token into an Identity when one is present.
// Requests without a token (or with an invalid one) proceed anonymously;
// endpoints that care inspect the context themselves.
func OptionalAuth(svc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return next(c)
			}

			claims, err := ParseToken(raw, svc.secret)
			if err != nil {
				return next(c)
			}
			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return next(c)
			}

			// Re-read the user so revoked accounts and stale names drop off.
			u, err := svc.users.GetByID(c.Request().Context(), userID)
			if err != nil {
				return next(c)
			}

			ctx := context.WithValue(c.Request().Context(), identityKey, u.identity())
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// IdentityFromContext returns the authenticated caller, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given identity. Used by tests
// and by callers that resolve identity out of band.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}
