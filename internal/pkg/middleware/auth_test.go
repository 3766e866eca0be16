package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acessoclub/acessoclub/internal/pkg/usercontext"
)

func withUserContext(ctx usercontext.UserContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, ctx)
		return c.Next()
	}
}

func okHandler(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func TestRequireAPISessionAuth(t *testing.T) {
	tests := []struct {
		name       string
		ctx        usercontext.UserContext
		wantStatus int
	}{
		{"anonymous", usercontext.UserContext{}, fiber.StatusUnauthorized},
		{"logged in", usercontext.UserContext{UserID: 7, IsLoggedIn: true}, fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", withUserContext(tt.ctx), RequireAPISessionAuth, okHandler)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		ctx        usercontext.UserContext
		wantStatus int
	}{
		{"anonymous", usercontext.UserContext{}, fiber.StatusUnauthorized},
		{"member", usercontext.UserContext{UserID: 7, IsLoggedIn: true}, fiber.StatusForbidden},
		{"operator", usercontext.UserContext{UserID: 1, IsLoggedIn: true, IsAdmin: true}, fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", withUserContext(tt.ctx), RequireAdmin, okHandler)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
