package auth

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// RegisterUserMessage carries a registration request.
type RegisterUserMessage struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Roles    []Role `json:"roles,omitempty"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserResponse reports the created account and the activation token
// the caller is expected to deliver out of band.
type RegisterUserResponse struct {
	User            *User
	ActivationToken string
}

// RegisterUserHandler creates a disabled account and issues its activation
// token.
type RegisterUserHandler struct {
	Users      UserStore
	Activation *ActivationTokens
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*RegisterUserResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during user registration")
	default:
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     strings.TrimSpace(event.Username),
		Email:        strings.TrimSpace(strings.ToLower(event.Email)),
		PasswordHash: hash,
		Enabled:      false,
		Roles:        event.Roles,
	}

	user, err = h.Users.Register(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := h.Activation.Issue(user.Email)
	if err != nil {
		return nil, err
	}

	return &RegisterUserResponse{
		User:            user,
		ActivationToken: token,
	}, nil
}

// ActivateAccountMessage carries an activation token for consumption.
type ActivateAccountMessage struct {
	Token string `json:"token"`
}

func (e ActivateAccountMessage) Type() string { return "user.activate" }

// ActivateAccountHandler consumes an activation token and enables the account
// bound to its email claim. The side effect is idempotent, so replaying a
// still-valid token cannot corrupt state; effective single use comes from the
// flag flip plus re-issuing a fresh token for any retry.
type ActivateAccountHandler struct {
	Users      UserStore
	Activation *ActivationTokens
}

func (h *ActivateAccountHandler) Execute(ctx context.Context, event ActivateAccountMessage) (*User, error) {
	email, err := h.Activation.Validate(event.Token)
	if err != nil {
		return nil, err
	}

	return h.Users.Enable(ctx, email)
}

// InitializePasswordResetMessage requests a reset token for an email.
type InitializePasswordResetMessage struct {
	Email string `json:"email"`
}

func (e InitializePasswordResetMessage) Type() string { return "user.password_reset.init" }

// InitializePasswordResetHandler issues a reset token for a known account. The
// token is the same activation class: email subject, activation key and TTL.
type InitializePasswordResetHandler struct {
	Users      UserStore
	Activation *ActivationTokens
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) (string, error) {
	user, err := h.Users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(event.Email)))
	if err != nil {
		return "", err
	}

	return h.Activation.Issue(user.Email)
}

// FinalizePasswordResetMessage carries a reset token plus the new password.
type FinalizePasswordResetMessage struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (e FinalizePasswordResetMessage) Type() string { return "user.password_reset.finalize" }

// FinalizePasswordResetHandler consumes a reset token and swaps the password
// hash. Sessions of the account are revoked so stolen refresh tokens die with
// the old password.
type FinalizePasswordResetHandler struct {
	Users      UserStore
	Activation *ActivationTokens
	Sessions   *SessionManager
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	email, err := h.Activation.Validate(event.Token)
	if err != nil {
		return err
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return err
	}

	if err := h.Users.ResetPassword(ctx, email, hash); err != nil {
		return err
	}

	if h.Sessions != nil {
		if _, err := h.Sessions.RevokeAll(ctx, email); err != nil && !goerrors.IsNotFound(err) {
			return err
		}
	}

	return nil
}
