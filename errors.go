package auth

import (
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds        = "INVALID_CREDENTIALS"
	TextCodeNotAuthorized       = "NOT_AUTHORIZED"
	TextCodeEmailInUse          = "EMAIL_IN_USE"
	TextCodeUserNotFound        = "USER_NOT_FOUND"
	TextCodeAlreadyVerified     = "ALREADY_VERIFIED"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeTokenMalformed      = "TOKEN_MALFORMED"
	TextCodeEmptyPassword       = "EMPTY_PASSWORD"
	TextCodeValidationFailed    = "VALIDATION_FAILED"
	TextCodeInvalidSubscription = "INVALID_SUBSCRIPTION"
)

// ErrInvalidCredentials is returned for every login failure. The message never
// tells an unknown email apart from a wrong password or an unverified account.
var ErrInvalidCredentials = errors.New("Email or password is wrong", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrNotAuthorized is the uniform rejection of the access guard.
var ErrNotAuthorized = errors.New("Not authorized", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeNotAuthorized)

// ErrEmailInUse is returned when registering an existing email
var ErrEmailInUse = errors.New("Email in use", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeEmailInUse)

// ErrUserNotFound covers unknown emails on resend and unknown verification tokens
var ErrUserNotFound = errors.New("User not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeUserNotFound)

// ErrAlreadyVerified is returned when resending to a verified account
var ErrAlreadyVerified = errors.New("Email already verified", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeAlreadyVerified)

// ErrTokenExpired the session token is past its expiration
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed the session token could not be parsed or its signature is wrong
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrNoEmptyString we refuse to hash empty passwords
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeEmptyPassword)

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
	return strings.Contains(err.Error(), "token is malformed")
}

// NewValidationError turns an ozzo validation result into a rich error
// carrying the first failing field message.
func NewValidationError(err error) error {
	if err == nil {
		return nil
	}

	message := err.Error()
	metadata := map[string]any{}

	if verrs, ok := err.(validation.Errors); ok {
		for _, field := range sortedKeys(verrs) {
			metadata[field] = verrs[field].Error()
		}
		if first := firstField(verrs); first != "" {
			message = first + ": " + verrs[first].Error()
		}
	}

	return errors.New(message, errors.CategoryValidation).
		WithCode(errors.CodeBadRequest).
		WithTextCode(TextCodeValidationFailed).
		WithMetadata(metadata)
}

func firstField(verrs validation.Errors) string {
	keys := sortedKeys(verrs)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func sortedKeys(verrs validation.Errors) []string {
	keys := make([]string, 0, len(verrs))
	for k, v := range verrs {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
