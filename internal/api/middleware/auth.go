package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/afiya/health-system/internal/core/domain"
	"github.com/afiya/health-system/internal/core/ports"
)

// Auth validates the bearer token and injects the authenticated identity
// into the request context. Validation is two-step: the JWT signature and
// expiry must check out, and the token must still be present in the session
// store. A token absent there has been revoked or expired server-side.
//
// Auth runs before any binding or field validation, so an unauthenticated
// caller always sees 401, never a validation error.
func Auth(jwtSecret string, sessions ports.SessionStore) echo.MiddlewareFunc {
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
			token := parts[1]

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, err := sessions.Lookup(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			sub, _ := claims["sub"].(string)
			if sub != strconv.FormatInt(userID, 10) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_id", userID)
			c.Set("username", claims["username"])

			return next(c)
		}
	}
}
