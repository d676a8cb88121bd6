package contacts

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used for numbers written without a country code
const DefaultPhoneRegion = "US"

// ContactInput is the body of create and update requests
type ContactInput struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

// IsEmpty reports whether no field was sent
func (r ContactInput) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil && r.Favorite == nil
}

// Normalize returns a copy with surrounding whitespace removed from every
// text field. Validation and Patch both work on the normalized values.
func (r ContactInput) Normalize() ContactInput {
	return ContactInput{
		Name:     trimmed(r.Name),
		Email:    trimmed(r.Email),
		Phone:    trimmed(r.Phone),
		Favorite: r.Favorite,
	}
}

// ValidateCreate will validate the payload for a new contact
func (r ContactInput) ValidateCreate() error {
	r = r.Normalize()
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("missing required name field"), validation.Length(1, 200)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Phone, validation.By(possiblePhone)),
	)
}

// ValidateUpdate will validate the payload for an update, absent fields
// are left alone but a present name cannot be blank.
func (r ContactInput) ValidateUpdate() error {
	r = r.Normalize()
	rules := []*validation.FieldRules{
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Phone, validation.By(possiblePhone)),
	}
	if r.Name != nil {
		rules = append(rules, validation.Field(&r.Name, validation.Required, validation.Length(1, 200)))
	}
	return validation.ValidateStruct(&r, rules...)
}

// Patch converts the input into a store patch
func (r ContactInput) Patch() Patch {
	n := r.Normalize()
	return Patch{
		Name:     n.Name,
		Email:    n.Email,
		Phone:    n.Phone,
		Favorite: n.Favorite,
	}
}

// FavoriteInput is the body of the favorite toggle
type FavoriteInput struct {
	Favorite *bool `json:"favorite"`
}

func possiblePhone(value any) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case *string:
		if v == nil {
			return nil
		}
		raw = *v
	default:
		return nil
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	num, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil || !phonenumbers.IsPossibleNumber(num) {
		return errors.New("must be a valid phone number", errors.CategoryValidation)
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
