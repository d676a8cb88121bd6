package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// MinPasswordLength is the shortest password we accept on registration
const MinPasswordLength = 6

const (
	msgEmailRequired    = "missing required email field"
	msgPasswordRequired = "missing required password field"
)

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Email        string       `json:"email" form:"email"`
	Password     string       `json:"password" form:"password"`
	Subscription Subscription `json:"subscription,omitempty" form:"subscription"`
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error(msgEmailRequired), is.Email),
		validation.Field(&r.Password, validation.Required.Error(msgPasswordRequired), validation.Length(MinPasswordLength, 0)),
		validation.Field(&r.Subscription, validation.In(Subscriptions...)),
	)
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will validate the payload
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error(msgEmailRequired), is.Email),
		validation.Field(&r.Password, validation.Required.Error(msgPasswordRequired), validation.Length(MinPasswordLength, 0)),
	)
}

// ResendRequest asks for a new verification email
type ResendRequest struct {
	Email string `json:"email" form:"email"`
}

// Validate will validate the payload
func (r ResendRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error(msgEmailRequired), is.Email),
	)
}

// SubscriptionRequest changes the plan of the current user
type SubscriptionRequest struct {
	Subscription Subscription `json:"subscription" form:"subscription"`
}

// Validate will validate the payload
func (r SubscriptionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Subscription, validation.Required, validation.In(Subscriptions...)),
	)
}

// LoginResult is returned on a successful login
type LoginResult struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}
