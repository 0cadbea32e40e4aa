package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Auth validates the JWT and injects the caller's identity into context.
// Requests without a valid Bearer token are rejected with 401.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			claims, err := parseToken(authHeader, jwtSecret)
			if err != nil {
				return err
			}

			c.Set("user_id", claims["sub"])
			c.Set("email", claims["email"])

			return next(c)
		}
	}
}

// OptionalAuth injects identity when a Bearer token is present but lets
// anonymous requests through. Gated-field redaction happens in the service
// layer, so browse and profile reads serve both audiences from one route.
// A present-but-invalid token is still rejected: a caller who sends
// credentials should learn they are broken, not silently browse anonymously.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			claims, err := parseToken(authHeader, jwtSecret)
			if err != nil {
				return err
			}

			c.Set("user_id", claims["sub"])
			c.Set("email", claims["email"])

			return next(c)
		}
	}
}

func parseToken(authHeader, jwtSecret string) (jwt.MapClaims, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	return claims, nil
}
