package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// Signer produces and verifies signed, time-bounded tokens with a single
// symmetric HS256 key. Access and activation tokens each get their own Signer
// so a compromise of one key does not expose the other class.
//
// Signing and verification hold no mutable state; a Signer is safe for
// unrestricted concurrent use.
type Signer struct {
	key    []byte
	ttl    time.Duration
	issuer string
	logger Logger
	now    func() time.Time
}

// NewSigner creates a Signer for one token class.
func NewSigner(key []byte, ttl time.Duration, issuer string) *Signer {
	return &Signer{
		key:    key,
		ttl:    ttl,
		issuer: issuer,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (s *Signer) WithLogger(logger Logger) *Signer {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithClock injects a custom clock (useful for tests).
func (s *Signer) WithClock(now func() time.Time) *Signer {
	if now != nil {
		s.now = now
	}
	return s
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Sign mints a token for the given subject with issued-at = now and
// expiry = now + TTL.
func (s *Signer) Sign(subject string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrTokenInvalidArgument
	}

	now := s.now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	ensureTokenID(&claims.RegisteredClaims)

	return s.SignClaims(claims)
}

// SignClaims signs an arbitrary claim set using the configured signing key.
func (s *Signer) SignClaims(claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(s.key)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token")
	}

	return signedString, nil
}

// Verify checks signature integrity, structural well-formedness, and expiry,
// in that order, failing fast on the first violated check. Failures are
// categorized so callers can produce distinct user-facing messages without
// leaking cryptographic detail.
func (s *Signer) Verify(raw string) (*TokenClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrTokenInvalidArgument
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(s.issuer))
	}

	// The method check lives in the keyfunc rather than WithValidMethods so an
	// unexpected algorithm surfaces as unsupported instead of a signature error.
	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			s.logger.Error("Signer verify encountered unexpected signing method: %v", t.Header["alg"])
			return nil, ErrTokenUnsupported
		}
		return s.key, nil
	}, parserOptions...)

	if err != nil {
		return nil, s.categorize(err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		s.logger.Error("Signer verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

func (s *Signer) categorize(err error) error {
	switch {
	case goerrors.Is(err, ErrTokenUnsupported), goerrors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenUnsupported
	case goerrors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case goerrors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	default:
		// Signature mismatches, issuer mismatches, and any remaining parse
		// failures all surface as the generic malformed-token rejection.
		return goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(ErrTokenMalformed.Code)
	}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = newTokenID()
	}
}
