package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the bun backed credential store
type Users interface {
	CredentialStore

	ExistsTx(ctx context.Context, tx bun.IDB, email string) (bool, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)
	UpdateByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID, patch UserPatch) error
}

type users struct {
	repository.Repository[*User]
	db  *bun.DB
	now func() time.Time
}

var _ Users = (*users)(nil)

// UsersOption configures the users repository
type UsersOption func(*users)

// WithUsersClock overrides the clock used for updated_at
func WithUsersClock(now func() time.Time) UsersOption {
	return func(u *users) {
		if now != nil {
			u.now = now
		}
	}
}

// NewUsersRepository creates the users repository on top of db
func NewUsersRepository(db *bun.DB, opts ...UsersOption) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	repoUsers := &users{
		Repository: repo,
		db:         db,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repoUsers)
		}
	}

	return repoUsers
}

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return a.findOne(ctx, "email", normalizeEmail(email))
}

func (a *users) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if id == uuid.Nil {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}
	return a.findOne(ctx, "id", id)
}

func (a *users) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"verification_token": token})
	}
	return a.findOne(ctx, "verification_token", token)
}

func (a *users) Exists(ctx context.Context, email string) (bool, error) {
	return a.ExistsTx(ctx, a.db, email)
}

func (a *users) ExistsTx(ctx context.Context, tx bun.IDB, email string) (bool, error) {
	return tx.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Exists(ctx)
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	if record == nil {
		return nil, errors.New("user record is required", errors.CategoryBadInput)
	}

	record.Email = normalizeEmail(record.Email)
	prepareUserDefaults(record)

	created, err := a.Repository.CreateTx(ctx, tx, record, criteria...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	return created, nil
}

func (a *users) UpdateByID(ctx context.Context, id uuid.UUID, patch UserPatch) error {
	return a.UpdateByIDTx(ctx, a.db, id, patch)
}

// UpdateByIDTx applies patch to the user. We build the SET list by hand
// since the ORM update skips zero values and cannot write NULL.
func (a *users) UpdateByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID, patch UserPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	q := tx.NewUpdate().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id)

	if patch.SessionToken != nil {
		q = q.Set("session_token = ?", nullable(*patch.SessionToken))
	}
	if patch.VerificationToken != nil {
		q = q.Set("verification_token = ?", nullable(*patch.VerificationToken))
	}
	if patch.Verified != nil {
		q = q.Set("verified = ?", *patch.Verified)
	}
	if patch.AvatarURL != nil {
		q = q.Set("avatar_url = ?", *patch.AvatarURL)
	}
	if patch.Subscription != nil {
		q = q.Set("subscription = ?", *patch.Subscription)
	}
	q = q.Set("updated_at = ?", a.now())

	res, err := q.Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *users) findOne(ctx context.Context, column string, value any) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// emails match case-sensitively, only surrounding whitespace is dropped
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
