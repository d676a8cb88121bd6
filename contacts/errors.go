package contacts

import (
	"fmt"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidID       = "INVALID_ID"
	TextCodeNotFound        = "CONTACT_NOT_FOUND"
	TextCodeMissingFields   = "MISSING_FIELDS"
	TextCodeMissingFavorite = "MISSING_FAVORITE"
)

// ErrContactNotFound is returned for missing contacts and for contacts owned
// by someone else alike.
var ErrContactNotFound = errors.New("Not Found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeNotFound)

// ErrMissingFields the request body had no fields
var ErrMissingFields = errors.New("missing fields", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeMissingFields)

// ErrMissingFavorite the favorite toggle body did not carry favorite
var ErrMissingFavorite = errors.New("missing field favorite", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeMissingFavorite)

// NewInvalidIDError reports a malformed contact id
func NewInvalidIDError(raw string) error {
	return errors.New(fmt.Sprintf("%s isn't a valid id!", raw), errors.CategoryBadInput).
		WithCode(errors.CodeBadRequest).
		WithTextCode(TextCodeInvalidID).
		WithMetadata(map[string]any{"id": raw})
}

// IsInvalidID reports whether err came from NewInvalidIDError
func IsInvalidID(err error) bool {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeInvalidID
	}
	return false
}
