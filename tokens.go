package auth

// TokenValidator validates a raw token and extracts its subject without tying
// callers to a specific signing implementation.
type TokenValidator interface {
	Validate(raw string) (string, error)
}

// TokenIssuer mints a signed token embedding the given subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// AccessTokens issues and validates the short-lived bearer credentials used on
// every request. The subject is the account's username (or email for accounts
// authenticated by address). Tokens are stateless: validity derives purely from
// signature and expiry, and the server holds no revocation list for them.
// Revocation happens indirectly through the short TTL and refresh-session
// revocation.
type AccessTokens struct {
	signer *Signer
}

var (
	_ TokenIssuer    = (*AccessTokens)(nil)
	_ TokenValidator = (*AccessTokens)(nil)
)

// NewAccessTokens creates the access-token service from the configured
// access secret and TTL.
func NewAccessTokens(cfg *Config) *AccessTokens {
	return &AccessTokens{
		signer: NewSigner([]byte(cfg.AccessTokenSecret), cfg.AccessTokenTTL(), cfg.Issuer),
	}
}

func (t *AccessTokens) WithLogger(logger Logger) *AccessTokens {
	t.signer.WithLogger(logger)
	return t
}

// Issue mints a bearer token for the identity subject.
func (t *AccessTokens) Issue(subject string) (string, error) {
	return t.signer.Sign(subject)
}

// Validate checks the token and returns its subject. Any failure surfaces as a
// categorized authentication error; there is no silent anonymous fallback.
func (t *AccessTokens) Validate(raw string) (string, error) {
	claims, err := t.signer.Verify(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject(), nil
}

// Signer exposes the underlying signer, mainly for clock injection in tests.
func (t *AccessTokens) Signer() *Signer {
	return t.signer
}

// ActivationTokens issues and validates the longer-lived, single-purpose
// tokens used for account activation and password-reset flows. The subject is
// always the account's email. Single use is enforced by the consuming action
// (enabling the account, swapping the password hash), not by the token format;
// a retry always requires a freshly issued token.
type ActivationTokens struct {
	signer *Signer
}

var (
	_ TokenIssuer    = (*ActivationTokens)(nil)
	_ TokenValidator = (*ActivationTokens)(nil)
)

// NewActivationTokens creates the activation-token service. It signs with a
// key distinct from the access key so the two token classes never validate
// against each other.
func NewActivationTokens(cfg *Config) *ActivationTokens {
	return &ActivationTokens{
		signer: NewSigner([]byte(cfg.ActivationTokenSecret), cfg.ActivationTokenTTL(), cfg.Issuer),
	}
}

func (t *ActivationTokens) WithLogger(logger Logger) *ActivationTokens {
	t.signer.WithLogger(logger)
	return t
}

// Issue mints an activation token binding the account email.
func (t *ActivationTokens) Issue(email string) (string, error) {
	return t.signer.Sign(email)
}

// Validate checks the token and returns the email claim.
func (t *ActivationTokens) Validate(raw string) (string, error) {
	claims, err := t.signer.Verify(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject(), nil
}

// Signer exposes the underlying signer, mainly for clock injection in tests.
func (t *ActivationTokens) Signer() *Signer {
	return t.signer
}
