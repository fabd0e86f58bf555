package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitbook/internal/auth"
	"fitbook/internal/model"
	"fitbook/internal/service"
)

type stubAuthenticator map[string]*auth.Claims

func (s stubAuthenticator) Authenticate(_ context.Context, raw string) (*auth.Claims, error) {
	if raw == "broken-db" {
		return nil, errors.New("connection refused")
	}
	claims, ok := s[raw]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token", service.ErrUnauthorized)
	}
	return claims, nil
}

func newAuthApp() *fiber.App {
	authn := stubAuthenticator{
		"client-token":  {Role: model.RoleClient, RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"}},
		"trainer-token": {Role: model.RoleTrainer, RegisteredClaims: jwt.RegisteredClaims{Subject: "u-2"}},
	}
	app := fiber.New()
	app.Get("/me", RequireAuth(authn), func(c *fiber.Ctx) error {
		return c.SendString(ClaimsFrom(c).UserID())
	})
	app.Post("/sessions", RequireAuth(authn), RequireRole(model.RoleTrainer), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	app := newAuthApp()

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer client-token", fiber.StatusOK},
		{"lower-case scheme", "bearer client-token", fiber.StatusOK},
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"empty token", "Bearer ", fiber.StatusUnauthorized},
		{"unknown token", "Bearer nope", fiber.StatusUnauthorized},
		{"backend failure", "Bearer broken-db", fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	app := newAuthApp()

	req := httptest.NewRequest("POST", "/sessions", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer trainer-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("POST", "/sessions", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer client-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	bare := fiber.New()
	bare.Get("/", RequireRole(model.RoleTrainer), func(c *fiber.Ctx) error { return nil })
	resp, err = bare.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
