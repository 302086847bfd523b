package auth

import (
	"context"
	"time"
)

// SessionManager owns the refresh-session lifecycle: minting at login,
// verification on refresh exchanges, and revocation on logout or by an
// administrator. Sessions are verify-only: a refresh exchange re-validates the
// opaque token but does not rotate it to a new value.
type SessionManager struct {
	users    UserStore
	sessions SessionStore
	ttl      time.Duration
	logger   Logger
	now      func() time.Time
}

// NewSessionManager wires the manager against the account and session stores.
func NewSessionManager(users UserStore, sessions SessionStore, cfg *Config) *SessionManager {
	return &SessionManager{
		users:    users,
		sessions: sessions,
		ttl:      cfg.RefreshTokenTTL(),
		logger:   defLogger{},
		now:      time.Now,
	}
}

func (m *SessionManager) WithLogger(logger Logger) *SessionManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithClock injects a custom clock (useful for tests).
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	if now != nil {
		m.now = now
	}
	return m
}

// Create mints a new session for the account: fresh random opaque token,
// expiry = now + refresh TTL. Concurrent logins for the same account create
// independent rows. Fails with an account-not-found error when the id is
// unknown.
func (m *SessionManager) Create(ctx context.Context, accountID string) (*RefreshSession, error) {
	user, err := m.users.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	token, err := newOpaqueToken()
	if err != nil {
		return nil, err
	}

	now := m.now()
	session := &RefreshSession{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: &now,
	}

	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// FindByToken is a pure lookup with no side effects.
func (m *SessionManager) FindByToken(ctx context.Context, token string) (*RefreshSession, error) {
	return m.sessions.GetByToken(ctx, token)
}

// Verify checks the session against the clock. An expired session is deleted
// before the error surfaces, so a subsequent lookup on the same token observes
// not-found. A valid session is returned unchanged: there is no sliding
// expiry.
func (m *SessionManager) Verify(ctx context.Context, session *RefreshSession) (*RefreshSession, error) {
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.Expired(m.now()) {
		if err := m.sessions.DeleteByToken(ctx, session.Token); err != nil {
			m.logger.Error("failed to delete expired refresh session: %v", err)
		}
		return nil, ErrSessionExpired
	}

	return session, nil
}

// RevokeAll deletes every session owned by the account resolved from the
// username or email, returning the number removed. Fails with an
// account-not-found error when the identifier resolves to nothing.
func (m *SessionManager) RevokeAll(ctx context.Context, usernameOrEmail string) (int, error) {
	user, err := m.users.GetByIdentifier(ctx, usernameOrEmail)
	if err != nil {
		return 0, err
	}

	return m.sessions.DeleteByUser(ctx, user.ID.String())
}
