package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity. Role resolution
// happens at authentication time so the authorization layer never touches the
// store again during a request.
type Identity interface {
	ID() string
	Username() string
	Email() string
	Roles() []Role
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Refresh(ctx context.Context, opaqueToken string) (*LoginResult, error)
	Logout(ctx context.Context, identifier string) (int, error)
	IdentityFromToken(ctx context.Context, raw string) (Identity, error)
}

// UserStore is the account-store contract the core needs: lookup by
// identifier, the enabled flag, and assigned roles. The core only reads
// accounts; registration and activation mutate them through dedicated actions.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	Enable(ctx context.Context, email string) (*User, error)
	ResetPassword(ctx context.Context, email, passwordHash string) error
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// SessionStore is the durable store for refresh sessions, keyed by the opaque
// token. Deletes must be atomic at row level: a session removed by one request
// makes a concurrent lookup observe not-found, never a stale record.
type SessionStore interface {
	Create(ctx context.Context, session *RefreshSession) error
	GetByToken(ctx context.Context, token string) (*RefreshSession, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) (int, error)
	DeleteExpired(ctx context.Context) (int, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
