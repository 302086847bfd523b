package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AuthScheme is the Authorization header scheme the guard accepts.
const AuthScheme = "Bearer"

// IdentityLocalsKey is the fiber locals key the guard stores the identity under.
const IdentityLocalsKey = "auth_identity"

// Guard is the route middleware that authenticates bearer tokens and enforces
// the access policy. Anonymous requests pass through only when a public rule
// matches; a present-but-invalid token always fails, even on public routes.
type Guard struct {
	auth   Authenticator
	policy *AccessPolicy
	logger Logger
}

// NewGuard wires the middleware over the authenticator and policy.
func NewGuard(auth Authenticator, policy *AccessPolicy) *Guard {
	return &Guard{
		auth:   auth,
		policy: policy,
		logger: defLogger{},
	}
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Handler returns the fiber handler enforcing authentication plus policy.
func (g *Guard) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var identity Identity

		if raw, ok := bearerToken(c); ok {
			resolved, err := g.auth.IdentityFromToken(c.UserContext(), raw)
			if err != nil {
				return writeError(c, err)
			}
			identity = resolved
		}

		if err := g.policy.Authorize(identity, c.Method(), c.Path()); err != nil {
			return writeError(c, err)
		}

		if identity != nil {
			c.Locals(IdentityLocalsKey, identity)
			c.SetUserContext(WithIdentity(c.UserContext(), identity))
		}

		return c.Next()
	}
}

// IdentityFromFiber retrieves the identity the guard stored on the request.
func IdentityFromFiber(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(IdentityLocalsKey).(Identity)
	return identity, ok
}

// bearerToken extracts the bearer credential from the Authorization header.
// Absence is reported, not treated as an error.
func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthScheme) {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
