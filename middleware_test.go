package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedApp(t *testing.T) (*fiber.App, *Auther) {
	t.Helper()

	auther, db := newTestAuther(t)
	seedUser(t, db, "pickle_rick", "rick@example.com", "wubba lubba dub dub", true, RoleAuthor)
	seedUser(t, db, "plain_jane", "jane@example.com", "just a regular user", true)

	app := fiber.New()
	app.Use(NewGuard(auther, DefaultPolicy()).Handler())

	app.Get("/api/posts", func(c *fiber.Ctx) error {
		return c.SendString("posts")
	})
	app.Post("/api/posts", func(c *fiber.Ctx) error {
		identity, ok := IdentityFromFiber(c)
		require.True(t, ok, "guard must inject the identity")

		ctxIdentity, ok := IdentityFromContext(c.UserContext())
		require.True(t, ok)
		assert.Equal(t, identity.ID(), ctxIdentity.ID())

		return c.SendString("created by " + identity.Username())
	})

	return app, auther
}

func loginToken(t *testing.T, auther *Auther, identifier, password string) string {
	t.Helper()
	result, err := auther.Login(context.Background(), identifier, password)
	require.NoError(t, err)
	return result.AccessToken
}

func TestGuardPublicRoute(t *testing.T) {
	app, _ := newGuardedApp(t)

	res, err := app.Test(httptest.NewRequest("GET", "/api/posts", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestGuardProtectedRoute(t *testing.T) {
	app, auther := newGuardedApp(t)

	t.Run("anonymous request gets 401", func(t *testing.T) {
		res, err := app.Test(httptest.NewRequest("POST", "/api/posts", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("author token passes and identity is injected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/posts", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+loginToken(t, auther, "pickle_rick", "wubba lubba dub dub"))

		res, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("insufficient role gets 403", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/posts", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+loginToken(t, auther, "plain_jane", "just a regular user"))

		res, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
	})

	t.Run("garbage token gets 400 even on a public route", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/posts", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")

		res, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})

	t.Run("malformed authorization header reads as anonymous", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/posts", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Token abc")

		res, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})
}
