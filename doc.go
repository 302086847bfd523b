// Package auth implements authentication and session lifecycle management for
// the publishing backend: credential verification, HS256 access and activation
// tokens, opaque refresh sessions, and role based authorization over the HTTP
// surface.
//
// The package is organized around a few cooperating pieces:
//
//   - Signer handles HS256 signing and verification with separate keys for
//     access and activation tokens.
//   - Auther orchestrates login, refresh, logout, and token-to-identity
//     resolution.
//   - SessionManager owns the refresh session lifecycle backed by a
//     SessionStore.
//   - AccessPolicy evaluates ordered method and path rules against the role
//     hierarchy ADMIN > EDITOR > AUTHOR > USER.
//   - Guard and HTTPController mount the whole thing on a fiber app.
//
// Typical wiring:
//
//	cfg, err := auth.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	users := auth.NewUsersRepository(db)
//	sessions := auth.NewSessionManager(users, auth.NewRefreshSessionsRepository(db), cfg)
//	auther := auth.NewAuthenticator(users, sessions, cfg)
//
//	app := fiber.New()
//	auth.NewHTTPController(auther, cfg).RegisterRoutes(app.Group("/api/auth"))
//	app.Use(auth.NewGuard(auther, auth.DefaultPolicy()).Handler())
package auth
