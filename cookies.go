package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewRefreshCookie builds the cookie that carries the opaque refresh token.
// The cookie is scoped to the refresh path so browsers only attach it to the
// refresh and logout endpoints, and it is unreadable from scripts.
func NewRefreshCookie(cfg *Config, token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     cfg.RefreshCookieName,
		Value:    token,
		Path:     cfg.RefreshCookiePath,
		MaxAge:   int(cfg.RefreshTokenTTL() / time.Second),
		Expires:  time.Now().Add(cfg.RefreshTokenTTL()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// ClearRefreshCookie builds the expired twin of the refresh cookie. Attribute
// parity with NewRefreshCookie matters: browsers only replace a cookie when
// name, path, and flags line up.
func ClearRefreshCookie(cfg *Config) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     cfg.RefreshCookieName,
		Value:    "",
		Path:     cfg.RefreshCookiePath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// RefreshTokenFromRequest reads the refresh token off the request cookie jar.
// Absence is not an error here; callers decide what a missing token means for
// their endpoint.
func RefreshTokenFromRequest(c *fiber.Ctx, cfg *Config) (string, bool) {
	token := c.Cookies(cfg.RefreshCookieName)
	if token == "" {
		return "", false
	}
	return token, true
}
