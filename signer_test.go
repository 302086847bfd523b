package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner([]byte("roundtrip-secret-0123456789-abcdef"), time.Minute, "gugultas")

	raw, err := signer.Sign("pickle_rick")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := signer.Verify(raw)
	require.NoError(t, err)

	assert.Equal(t, "pickle_rick", claims.Subject())
	assert.NotEmpty(t, claims.TokenID())
	assert.True(t, claims.Expires().After(claims.IssuedAt()))
	assert.Equal(t, time.Minute, claims.Expires().Sub(claims.IssuedAt()))
}

func TestSignerRejectsEmptySubject(t *testing.T) {
	signer := NewSigner([]byte("roundtrip-secret-0123456789-abcdef"), time.Minute, "gugultas")

	_, err := signer.Sign("   ")
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, ErrTokenInvalidArgument))
}

func TestSignerRejectsEmptyToken(t *testing.T) {
	signer := NewSigner([]byte("roundtrip-secret-0123456789-abcdef"), time.Minute, "gugultas")

	_, err := signer.Verify("")
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, ErrTokenInvalidArgument))
}

func TestSignerExpiry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer := NewSigner([]byte("expiring-secret-0123456789-abcdefg"), time.Minute, "gugultas")

	signer.WithClock(func() time.Time { return base })
	raw, err := signer.Sign("pickle_rick")
	require.NoError(t, err)

	t.Run("valid inside the window", func(t *testing.T) {
		signer.WithClock(func() time.Time { return base.Add(30 * time.Second) })
		_, err := signer.Verify(raw)
		assert.NoError(t, err)
	})

	t.Run("expired past the window", func(t *testing.T) {
		signer.WithClock(func() time.Time { return base.Add(2 * time.Minute) })
		_, err := signer.Verify(raw)
		require.Error(t, err)
		assert.True(t, goerrors.Is(err, ErrTokenExpired))
		assert.True(t, IsTokenExpiredError(err))
	})
}

func TestSignerCategorization(t *testing.T) {
	signer := NewSigner([]byte("category-secret-0123456789-abcdefg"), time.Minute, "gugultas")

	t.Run("garbage input is malformed", func(t *testing.T) {
		_, err := signer.Verify("definitely.not.a.token")
		require.Error(t, err)
		assert.True(t, IsMalformedError(err))
	})

	t.Run("wrong key is malformed", func(t *testing.T) {
		other := NewSigner([]byte("some-other-secret-0123456789-abcde"), time.Minute, "gugultas")
		raw, err := other.Sign("pickle_rick")
		require.NoError(t, err)

		_, err = signer.Verify(raw)
		require.Error(t, err)
		assert.True(t, IsMalformedError(err))
	})

	t.Run("wrong issuer is malformed", func(t *testing.T) {
		other := NewSigner([]byte("category-secret-0123456789-abcdefg"), time.Minute, "somebody-else")
		raw, err := other.Sign("pickle_rick")
		require.NoError(t, err)

		_, err = signer.Verify(raw)
		require.Error(t, err)
		assert.True(t, IsMalformedError(err))
	})

	t.Run("unsigned algorithm is unsupported", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Issuer:  "gugultas",
			Subject: "pickle_rick",
		})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = signer.Verify(raw)
		require.Error(t, err)
		assert.True(t, goerrors.Is(err, ErrTokenUnsupported))
	})
}

func TestSignerVerifyChecksSignatureBeforeExpiry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	other := NewSigner([]byte("some-other-secret-0123456789-abcde"), time.Minute, "gugultas")
	other.WithClock(func() time.Time { return base })
	raw, err := other.Sign("pickle_rick")
	require.NoError(t, err)

	signer := NewSigner([]byte("verifier-secret-0123456789-abcdefg"), time.Minute, "gugultas")
	signer.WithClock(func() time.Time { return base.Add(time.Hour) })

	// the token is both forged and expired, the signature failure must win
	_, err = signer.Verify(raw)
	require.Error(t, err)
	assert.False(t, goerrors.Is(err, ErrTokenExpired))
	assert.True(t, IsMalformedError(err))
}
