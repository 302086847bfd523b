package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestNewRefreshCookie(t *testing.T) {
	cfg := testConfig()
	cookie := NewRefreshCookie(cfg, "opaque-token-value")

	assert.Equal(t, "refresh_token", cookie.Name)
	assert.Equal(t, "opaque-token-value", cookie.Value)
	assert.Equal(t, "/api/auth", cookie.Path)
	assert.Equal(t, int(cfg.RefreshTokenTTL()/time.Second), cookie.MaxAge)
	assert.True(t, cookie.HTTPOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, fiber.CookieSameSiteStrictMode, cookie.SameSite)
}

func TestClearRefreshCookie(t *testing.T) {
	cookie := ClearRefreshCookie(testConfig())

	assert.Equal(t, "refresh_token", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, "/api/auth", cookie.Path)
	assert.Negative(t, cookie.MaxAge)
	assert.True(t, cookie.Expires.Before(time.Now()))
	assert.True(t, cookie.HTTPOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, fiber.CookieSameSiteStrictMode, cookie.SameSite)
}

func TestRefreshTokenFromRequest(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()

	app.Get("/probe", func(c *fiber.Ctx) error {
		token, ok := RefreshTokenFromRequest(c, cfg)
		if !ok {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.SendString(token)
	})

	t.Run("missing cookie is reported, not an error", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/probe", nil)
		res, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, res.StatusCode)
	})

	t.Run("present cookie is returned", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/probe", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "opaque-token-value"})
		res, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})
}
