package auth

import (
	"crypto/rand"
	"encoding/base64"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const opaqueTokenBytes = 32

func newTokenID() string {
	return uuid.NewString()
}

// newOpaqueToken generates the random, unguessable refresh token value.
func newOpaqueToken() (string, error) {
	b := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate refresh token")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
