package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeTokenMalformed   = "TOKEN_MALFORMED"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeTokenUnsupported = "TOKEN_UNSUPPORTED"
	TextCodeTokenInvalidArg  = "TOKEN_INVALID_ARGUMENT"

	TextCodeSessionNotFound = "REFRESH_SESSION_NOT_FOUND"
	TextCodeSessionExpired  = "REFRESH_SESSION_EXPIRED"

	TextCodeAccountNotFound = "ACCOUNT_NOT_FOUND"
	TextCodeAccountDisabled = "ACCOUNT_NOT_ACTIVATED"
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeTooManyAttempts = "TOO_MANY_LOGIN_ATTEMPTS"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
	TextCodeAuthRequired    = "AUTHENTICATION_REQUIRED"
	TextCodeAccessDenied    = "ACCESS_DENIED"
)

// ErrTokenMalformed is returned when a token fails structural or signature checks.
var ErrTokenMalformed = errors.New("authentication token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a token is past its expiry claim.
var ErrTokenExpired = errors.New("authentication token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeBadRequest)

// ErrTokenUnsupported is returned when a token uses a signing scheme we do not accept.
var ErrTokenUnsupported = errors.New("authentication token format is unsupported", errors.CategoryAuth).
	WithTextCode(TextCodeTokenUnsupported).
	WithCode(errors.CodeBadRequest)

// ErrTokenInvalidArgument is returned when the presented token is empty or not a token at all.
var ErrTokenInvalidArgument = errors.New("authentication token is missing or empty", errors.CategoryBadInput).
	WithTextCode(TextCodeTokenInvalidArg).
	WithCode(errors.CodeBadRequest)

// ErrSessionNotFound is returned when a refresh token matches no stored session.
var ErrSessionNotFound = errors.New("refresh session not found", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeForbidden)

// ErrSessionExpired is returned when a refresh session is past its expiry. The
// session record is deleted before this error surfaces, forcing a full re-login.
var ErrSessionExpired = errors.New("refresh session expired, please re-authenticate", errors.CategoryAuth).
	WithTextCode(TextCodeSessionExpired).
	WithCode(errors.CodeForbidden)

// ErrAccountNotFound is returned when an account cannot be resolved by id, username, or email.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrAccountDisabled is returned for accounts that have not completed activation,
// even when the presented credentials or tokens are otherwise valid.
var ErrAccountDisabled = errors.New("account is not activated", errors.CategoryAuth).
	WithTextCode(TextCodeAccountDisabled).
	WithCode(errors.CodeForbidden)

// ErrMismatchedHashAndPassword is the generic credential failure, deliberately
// identical for unknown accounts and wrong passwords.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned while an account is inside its cooldown window.
var ErrTooManyLoginAttempts = errors.New("too many login attempts, try again later", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts).
	WithCode(errors.CodeTooManyRequests)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrAuthenticationRequired is returned when a protected path is requested anonymously.
var ErrAuthenticationRequired = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeAuthRequired).
	WithCode(errors.CodeUnauthorized)

// ErrAuthorizationDenied is the generic policy denial. It never discloses which
// role would have satisfied the rule.
var ErrAuthorizationDenied = errors.New("access denied", errors.CategoryAuthz).
	WithTextCode(TextCodeAccessDenied).
	WithCode(errors.CodeForbidden)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// HTTPStatus resolves the status code carried by a structured error,
// defaulting to 500 for anything without one.
func HTTPStatus(err error) int {
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Code > 0 {
		return int(richErr.Code)
	}
	return int(errors.CodeInternal)
}
