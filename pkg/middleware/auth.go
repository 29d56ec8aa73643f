package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"strategy-backtest/config"
	"strategy-backtest/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const userIDContextKey = "user_id"

// UserID returns the authenticated user identifier stored by JWTAuth, or an
// empty string on unauthenticated routes.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDContextKey).(string)
	return id
}

// JWTAuth validates the bearer token on every request and stores the subject
// claim in the echo context. Token details are logged server-side only; the
// caller always gets the same generic message.
func JWTAuth(cfg config.Auth, log *logger.Logger) echo.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return unauthorized(c)
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				log.Warn("JWT validation failed", logger.ErrorField(err))
				return unauthorized(c)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c)
			}

			audience, err := claims.GetAudience()
			if err != nil || !audienceMatches(audience, cfg.Audience) {
				log.Warn("JWT audience mismatch", logger.StringField("expected", cfg.Audience))
				return unauthorized(c)
			}

			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				return unauthorized(c)
			}

			c.Set(userIDContextKey, subject)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("missing or malformed authorization header")
	}
	return parts[1], nil
}

// The audience claim may arrive as a plain string or a single-element list.
func audienceMatches(audience jwt.ClaimStrings, expected string) bool {
	for _, aud := range audience {
		if aud == expected {
			return true
		}
	}
	return false
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
}
