package auth

import (
	"context"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserHandler(t *testing.T) {
	auther, db := newTestAuther(t)
	users := NewUsersRepository(db)
	ctx := context.Background()

	handler := &RegisterUserHandler{
		Users:      users,
		Activation: auther.ActivationTokens(),
	}

	result, err := handler.Execute(ctx, RegisterUserMessage{
		Username: "morty",
		Email:    "Morty@Example.com",
		Password: "aw jeez aw man",
	})
	require.NoError(t, err)

	t.Run("account starts disabled with the default role", func(t *testing.T) {
		assert.False(t, result.User.Enabled)
		assert.Equal(t, "morty@example.com", result.User.Email, "email is normalized")
		assert.Equal(t, RoleList{RoleUser}, result.User.Roles)
	})

	t.Run("activation token binds the account email", func(t *testing.T) {
		email, err := auther.ActivationTokens().Validate(result.ActivationToken)
		require.NoError(t, err)
		assert.Equal(t, "morty@example.com", email)
	})

	t.Run("disabled account cannot log in yet", func(t *testing.T) {
		_, err := auther.Login(ctx, "morty", "aw jeez aw man")
		require.Error(t, err)
		assert.True(t, goerrors.Is(err, ErrAccountDisabled))
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		_, err := handler.Execute(ctx, RegisterUserMessage{
			Username: "morty",
			Email:    "morty@example.com",
			Password: "aw jeez aw man",
		})
		assert.Error(t, err)
	})
}

func TestActivateAccountHandler(t *testing.T) {
	auther, db := newTestAuther(t)
	users := NewUsersRepository(db)
	ctx := context.Background()

	register := &RegisterUserHandler{Users: users, Activation: auther.ActivationTokens()}
	activate := &ActivateAccountHandler{Users: users, Activation: auther.ActivationTokens()}

	registered, err := register.Execute(ctx, RegisterUserMessage{
		Username: "morty",
		Email:    "morty@example.com",
		Password: "aw jeez aw man",
	})
	require.NoError(t, err)

	t.Run("consuming the token enables the account", func(t *testing.T) {
		user, err := activate.Execute(ctx, ActivateAccountMessage{Token: registered.ActivationToken})
		require.NoError(t, err)
		assert.True(t, user.Enabled)

		_, err = auther.Login(ctx, "morty", "aw jeez aw man")
		assert.NoError(t, err)
	})

	t.Run("replaying the token is an idempotent no-op", func(t *testing.T) {
		user, err := activate.Execute(ctx, ActivateAccountMessage{Token: registered.ActivationToken})
		require.NoError(t, err)
		assert.True(t, user.Enabled)
	})

	t.Run("an access token never activates anything", func(t *testing.T) {
		raw, err := auther.AccessTokens().Issue("morty")
		require.NoError(t, err)

		_, err = activate.Execute(ctx, ActivateAccountMessage{Token: raw})
		require.Error(t, err)
		assert.True(t, IsMalformedError(err))
	})

	t.Run("expired activation token is rejected", func(t *testing.T) {
		base := time.Now().Add(-48 * time.Hour)
		signer := auther.ActivationTokens().Signer()
		signer.WithClock(func() time.Time { return base })
		raw, err := auther.ActivationTokens().Issue("morty@example.com")
		require.NoError(t, err)
		signer.WithClock(time.Now)

		_, err = activate.Execute(ctx, ActivateAccountMessage{Token: raw})
		require.Error(t, err)
		assert.True(t, goerrors.Is(err, ErrTokenExpired))
	})
}

func TestPasswordResetHandlers(t *testing.T) {
	auther, db := newTestAuther(t)
	users := NewUsersRepository(db)
	ctx := context.Background()

	seedUser(t, db, "pickle_rick", "rick@example.com", "wubba lubba dub dub", true)

	initialize := &InitializePasswordResetHandler{Users: users, Activation: auther.ActivationTokens()}
	finalize := &FinalizePasswordResetHandler{
		Users:      users,
		Activation: auther.ActivationTokens(),
		Sessions:   auther.Sessions(),
	}

	t.Run("unknown email fails initialization", func(t *testing.T) {
		_, err := initialize.Execute(ctx, InitializePasswordResetMessage{Email: "nobody@example.com"})
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})

	t.Run("reset swaps the password and kills live sessions", func(t *testing.T) {
		login, err := auther.Login(ctx, "pickle_rick", "wubba lubba dub dub")
		require.NoError(t, err)

		token, err := initialize.Execute(ctx, InitializePasswordResetMessage{Email: "rick@example.com"})
		require.NoError(t, err)

		err = finalize.Execute(ctx, FinalizePasswordResetMessage{
			Token:    token,
			Password: "new password here",
		})
		require.NoError(t, err)

		_, err = auther.Login(ctx, "pickle_rick", "wubba lubba dub dub")
		assert.True(t, goerrors.Is(err, ErrMismatchedHashAndPassword), "old password is dead")

		_, err = auther.Login(ctx, "pickle_rick", "new password here")
		assert.NoError(t, err)

		_, err = auther.Refresh(ctx, login.Session.Token)
		assert.True(t, goerrors.Is(err, ErrSessionNotFound), "old sessions are revoked")
	})
}
