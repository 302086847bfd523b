package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// MaxLoginAttempts is the maximum number of failed attempts an account gets
// before the cooldown applies.
var MaxLoginAttempts = 5

// CoolDownPeriod is the window during which the attempt counter is enforced.
var CoolDownPeriod = 24 * time.Hour

// LoginResult is what a successful login or refresh exchange yields: a fresh
// bearer token, the refresh session backing it, and the account summary.
type LoginResult struct {
	AccessToken string
	Session     *RefreshSession
	User        *User
}

// Auther orchestrates credential verification, token issuance, and the
// refresh-session lifecycle.
type Auther struct {
	users      UserStore
	access     *AccessTokens
	activation *ActivationTokens
	sessions   *SessionManager
	logger     Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users UserStore, sessions *SessionManager, cfg *Config) *Auther {
	return &Auther{
		users:      users,
		access:     NewAccessTokens(cfg),
		activation: NewActivationTokens(cfg),
		sessions:   sessions,
		logger:     defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// AccessTokens returns the access-token service used by this Authenticator
func (s *Auther) AccessTokens() *AccessTokens {
	return s.access
}

// ActivationTokens returns the activation-token service used by this Authenticator
func (s *Auther) ActivationTokens() *ActivationTokens {
	return s.activation
}

// Sessions returns the refresh session manager used by this Authenticator
func (s *Auther) Sessions() *SessionManager {
	return s.sessions
}

// Login verifies the credentials, rejects disabled accounts, and on success
// mints an access token (subject = username) plus a fresh refresh session.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	user, err := s.verifyCredentials(ctx, identifier, password)
	if err != nil {
		s.logger.Warn("Login rejected for %s: %v", identifier, err)
		return nil, err
	}

	if !user.Enabled {
		s.logger.Warn("Login blocked for disabled account %s", identifier)
		return nil, ErrAccountDisabled
	}

	if err := s.users.TrackSuccessfulLogin(ctx, user); err != nil {
		s.logger.Error("failed to track successful login: %v", err)
	}

	token, err := s.access.Issue(user.Username)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create(ctx, user.ID.String())
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		Session:     session,
		User:        user,
	}, nil
}

// Refresh exchanges a refresh session token for a new access token. The
// session is re-verified on every exchange; a valid session keeps its opaque
// token (verify-only, no rotation).
func (s *Auther) Refresh(ctx context.Context, opaqueToken string) (*LoginResult, error) {
	session, err := s.sessions.FindByToken(ctx, opaqueToken)
	if err != nil {
		s.logger.Warn("Refresh lookup failed: %v", err)
		return nil, err
	}

	session, err = s.sessions.Verify(ctx, session)
	if err != nil {
		s.logger.Warn("Refresh verify failed: %v", err)
		return nil, err
	}

	user, err := s.users.GetByID(ctx, session.UserID.String())
	if err != nil {
		return nil, err
	}

	if !user.Enabled {
		return nil, ErrAccountDisabled
	}

	token, err := s.access.Issue(user.Username)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		Session:     session,
		User:        user,
	}, nil
}

// Logout revokes every refresh session owned by the caller, returning the
// count removed.
func (s *Auther) Logout(ctx context.Context, identifier string) (int, error) {
	return s.sessions.RevokeAll(ctx, identifier)
}

// IdentityFromToken validates a bearer token, resolves the account behind its
// subject, and returns the identity with its role set. Disabled accounts are
// rejected even when the token itself is structurally valid.
func (s *Auther) IdentityFromToken(ctx context.Context, raw string) (Identity, error) {
	subject, err := s.access.Validate(raw)
	if err != nil {
		s.logger.Warn("IdentityFromToken validation failed: %v", err)
		return nil, err
	}

	user, err := s.users.GetByIdentifier(ctx, subject)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if !user.Enabled {
		return nil, ErrAccountDisabled
	}

	return identityFromUser(user), nil
}

func (s *Auther) verifyCredentials(ctx context.Context, identifier, password string) (*User, error) {
	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	attempts := user.LoginAttempts
	if user.LoginAttemptAt != nil && time.Since(*user.LoginAttemptAt) > CoolDownPeriod {
		attempts = 0
	}

	// too many attempts inside the window, cool off
	if attempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := s.users.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, goerrors.Wrap(err2, goerrors.CategoryInternal, "failed to track login attempt")
		}
		return nil, ErrMismatchedHashAndPassword
	}

	return user, nil
}

type authIdentity struct {
	id       string
	username string
	email    string
	roles    RoleList
}

var _ Identity = authIdentity{}

func identityFromUser(user *User) authIdentity {
	return authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		roles:    user.EffectiveRoles(),
	}
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Username() string {
	return a.username
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) Roles() []Role {
	return []Role(a.roles)
}
