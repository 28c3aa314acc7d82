package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pinpoint-app/ms-go-accounts/app/middleware"
	"github.com/pinpoint-app/ms-go-accounts/app/service"
	"github.com/pinpoint-app/ms-go-accounts/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func newMiddleware() *middleware.AuthMiddleware {
	cfg := &config.Config{
		LoginTokenSecret: "test-login-secret",
		ResetTokenSecret: "test-reset-secret",
		LoginTokenTTL:    time.Hour,
		ResetTokenTTL:    time.Hour,
	}

	// Token validation never touches the store or the mailer.
	accountService := service.NewAccountService(nil, nil, cfg)
	return middleware.NewAuthMiddleware(accountService)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	authMiddleware := newMiddleware()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	handler := authMiddleware.RequireAuth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_InvalidHeaderFormat(t *testing.T) {
	authMiddleware := newMiddleware()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	handler := authMiddleware.RequireAuth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	authMiddleware := newMiddleware()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	handler := authMiddleware.RequireAuth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_RejectsResetPurposeToken(t *testing.T) {
	authMiddleware := newMiddleware()

	claims := &service.Claims{
		AccountID: "64b5f0c2a1b2c3d4e5f60718",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-reset-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	handler := authMiddleware.RequireAuth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for reset-purpose token, got %d", rec.Code)
	}
}

func TestRequireAuth_SetsContextOnValidToken(t *testing.T) {
	authMiddleware := newMiddleware()

	claims := &service.Claims{
		AccountID: "64b5f0c2a1b2c3d4e5f60718",
		Email:     "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("test-login-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	handler := authMiddleware.RequireAuth(func(c echo.Context) error {
		accountID, ok := c.Get("account_id").(string)
		if !ok || accountID != "64b5f0c2a1b2c3d4e5f60718" {
			t.Fatalf("expected account_id in context, got %v", c.Get("account_id"))
		}
		email, ok := c.Get("account_email").(string)
		if !ok || email != "user@example.com" {
			t.Fatalf("expected account_email user@example.com, got %v", c.Get("account_email"))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
