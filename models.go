package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Subscription is the user's plan
type Subscription = string

const (
	// SubscriptionStarter is the default plan
	SubscriptionStarter Subscription = "starter"
	// SubscriptionPro is the pro plan
	SubscriptionPro Subscription = "pro"
	// SubscriptionBusiness is the business plan
	SubscriptionBusiness Subscription = "business"
)

// Subscriptions lists the accepted plans
var Subscriptions = []any{
	SubscriptionStarter,
	SubscriptionPro,
	SubscriptionBusiness,
}

// User is the user model
type User struct {
	bun.BaseModel     `bun:"table:users,alias:usr"`
	ID                uuid.UUID    `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email             string       `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash      string       `bun:"password_hash,notnull" json:"-"`
	Subscription      Subscription `bun:"subscription,notnull" json:"subscription,omitempty"`
	AvatarURL         string       `bun:"avatar_url" json:"avatarURL,omitempty"`
	Verified          bool         `bun:"verified,notnull" json:"verified"`
	VerificationToken *string      `bun:"verification_token" json:"-"`
	SessionToken      *string      `bun:"session_token" json:"-"`
	CreatedAt         *time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt         *time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasSession reports whether the user holds an active session token
func (u *User) HasSession() bool {
	return u != nil && u.SessionToken != nil && *u.SessionToken != ""
}

// Public returns the projection we expose to clients
func (u *User) Public() PublicUser {
	if u == nil {
		return PublicUser{}
	}
	return PublicUser{
		Email:        u.Email,
		Subscription: u.Subscription,
	}
}

// PublicUser is the client facing user projection
type PublicUser struct {
	Email        string       `json:"email"`
	Subscription Subscription `json:"subscription"`
}

// UserPatch is a partial update. Nil fields are left untouched, a pointer
// to an empty string clears a nullable token column.
type UserPatch struct {
	SessionToken      *string
	VerificationToken *string
	Verified          *bool
	AvatarURL         *string
	Subscription      *Subscription
}

// IsEmpty reports whether the patch has no fields set
func (p UserPatch) IsEmpty() bool {
	return p.SessionToken == nil &&
		p.VerificationToken == nil &&
		p.Verified == nil &&
		p.AvatarURL == nil &&
		p.Subscription == nil
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Subscription == "" {
		record.Subscription = SubscriptionStarter
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
