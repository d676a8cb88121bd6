package contacts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Contact is an address book entry owned by a single user
type Contact struct {
	bun.BaseModel `bun:"table:contacts,alias:ct"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Email         string     `bun:"email" json:"email"`
	Phone         string     `bun:"phone" json:"phone"`
	Favorite      bool       `bun:"favorite,notnull" json:"favorite"`
	Owner         uuid.UUID  `bun:"owner,notnull,type:uuid" json:"owner"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// Patch holds the fields of an update, nil means unchanged
type Patch struct {
	Name     *string
	Email    *string
	Phone    *string
	Favorite *bool
}

// IsEmpty reports whether the patch has no fields set
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Favorite == nil
}

// ListOptions narrows a list query
type ListOptions struct {
	Offset   int
	Limit    int
	Favorite *bool
}

// Models returns the bun models owned by this package
func Models() []any {
	return []any{
		(*Contact)(nil),
	}
}
