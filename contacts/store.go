package contacts

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store persists contacts. Every lookup by id also filters by owner in the
// same query, a contact owned by someone else is reported as not found.
type Store interface {
	Create(ctx context.Context, contact *Contact) (*Contact, error)
	FindOwned(ctx context.Context, id, owner uuid.UUID) (*Contact, error)
	ListOwned(ctx context.Context, owner uuid.UUID, opts ListOptions) ([]*Contact, int, error)
	UpdateOwned(ctx context.Context, id, owner uuid.UUID, patch Patch) (*Contact, error)
	DeleteOwned(ctx context.Context, id, owner uuid.UUID) error
}

type contactsStore struct {
	repository.Repository[*Contact]
	db  *bun.DB
	now func() time.Time
}

var _ Store = (*contactsStore)(nil)

// NewStore returns the bun backed contact store
func NewStore(db *bun.DB) Store {
	repo := repository.NewRepository[*Contact](db, repository.ModelHandlers[*Contact]{
		NewRecord: func() *Contact { return &Contact{} },
		GetID: func(c *Contact) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Contact, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &contactsStore{
		Repository: repo,
		db:         db,
		now:        time.Now,
	}
}

func (s *contactsStore) Create(ctx context.Context, contact *Contact) (*Contact, error) {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	return s.Repository.CreateTx(ctx, s.db, contact)
}

func (s *contactsStore) FindOwned(ctx context.Context, id, owner uuid.UUID) (*Contact, error) {
	record := &Contact{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.owner = ?", owner).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err) {
			return nil, notFound(id)
		}
		return nil, err
	}

	return record, nil
}

func (s *contactsStore) ListOwned(ctx context.Context, owner uuid.UUID, opts ListOptions) ([]*Contact, int, error) {
	records := []*Contact{}

	q := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.owner = ?", owner)

	if opts.Favorite != nil {
		q = q.Where("?TableAlias.favorite = ?", *opts.Favorite)
	}

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	total, err := q.
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC").
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (s *contactsStore) UpdateOwned(ctx context.Context, id, owner uuid.UUID, patch Patch) (*Contact, error) {
	if patch.IsEmpty() {
		return s.FindOwned(ctx, id, owner)
	}

	q := s.db.NewUpdate().
		Model((*Contact)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.owner = ?", owner)

	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
	}
	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
	}
	if patch.Phone != nil {
		q = q.Set("phone = ?", *patch.Phone)
	}
	if patch.Favorite != nil {
		q = q.Set("favorite = ?", *patch.Favorite)
	}
	q = q.Set("updated_at = ?", s.now())

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, notFound(id)
	}

	return s.FindOwned(ctx, id, owner)
}

func (s *contactsStore) DeleteOwned(ctx context.Context, id, owner uuid.UUID) error {
	res, err := s.db.NewDelete().
		Model((*Contact)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.owner = ?", owner).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(id)
	}

	return nil
}

func notFound(id uuid.UUID) error {
	return repository.NewRecordNotFound().
		WithMetadata(map[string]any{
			"id": id.String(),
		})
}
