package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/melodia/music-catalog-api/internal/api/metrics"
	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

// RefreshedTokenHeader carries a replacement token back to the client when
// the presented one was expired but still authoritative. Clients must adopt
// it for subsequent requests.
const RefreshedTokenHeader = "X-Refreshed-Token"

// Context keys populated on successful authentication.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Auth authenticates the bearer token through the session manager and
// injects the resolved identity into the request context. Classification of
// failures stays in the session manager; this middleware only counts them
// and lets the central error handler map them to status codes.
func Auth(sessions ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			auth, err := sessions.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureClass(err)).Inc()
				return err
			}

			if auth.RefreshedToken != "" {
				metrics.TokenRefreshesTotal.Inc()
				c.Response().Header().Set(RefreshedTokenHeader, auth.RefreshedToken)
			}

			c.Set(CtxUserID, auth.Identity.ID)
			c.Set(CtxRole, auth.Identity.Role)

			return next(c)
		}
	}
}

func failureClass(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenInvalid):
		return "invalid"
	case errors.Is(err, domain.ErrSessionRevoked):
		return "revoked"
	case errors.Is(err, domain.ErrSessionStoreUnavailable):
		return "store_unavailable"
	default:
		return "other"
	}
}
