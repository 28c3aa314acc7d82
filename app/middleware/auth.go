package middleware

import (
	"net/http"
	"strings"

	"github.com/pinpoint-app/ms-go-accounts/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type loginTokenValidator interface {
	ValidateLoginToken(tokenString string) (*service.Claims, error)
}

type AuthMiddleware struct {
	accounts loginTokenValidator
}

func NewAuthMiddleware(accounts loginTokenValidator) *AuthMiddleware {
	return &AuthMiddleware{accounts: accounts}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			logrus.Debug("Missing authorization header")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"message": "missing authorization header",
			})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logrus.Debug("Invalid authorization header format")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"message": "invalid authorization header format",
			})
		}

		tokenString := parts[1]
		claims, err := m.accounts.ValidateLoginToken(tokenString)
		if err != nil {
			logrus.Debug("Invalid or expired login token")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"message": "invalid or expired token",
			})
		}

		c.Set("account_id", claims.AccountID)
		c.Set("account_email", claims.Email)

		return next(c)
	}
}
