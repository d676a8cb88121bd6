package contacts

import (
	"context"
	"strings"

	"github.com/goliatone/go-contacts-auth"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListQuery is the client facing list filter
type ListQuery struct {
	Page     int   `query:"page"`
	Limit    int   `query:"limit"`
	Favorite *bool `query:"favorite"`
}

// Page is one page of a contact listing
type Page struct {
	Items []*Contact `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

// Service enforces ownership on every contact operation
type Service struct {
	store  Store
	logger auth.Logger
}

// NewService returns a Service on top of store
func NewService(store Store) *Service {
	return &Service{
		store:  store,
		logger: auth.DefaultLogger(),
	}
}

func (s *Service) WithLogger(logger auth.Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// ParseID validates a raw contact id
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, NewInvalidIDError(raw)
	}
	return id, nil
}

// List returns the owner's contacts, one page at a time
func (s *Service) List(ctx context.Context, owner uuid.UUID, query ListQuery) (Page, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	limit := query.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	items, total, err := s.store.ListOwned(ctx, owner, ListOptions{
		Offset:   (page - 1) * limit,
		Limit:    limit,
		Favorite: query.Favorite,
	})
	if err != nil {
		s.logger.Error("contacts list error", "error", err)
		return Page{}, errors.Wrap(err, errors.CategoryInternal, "failed to list contacts")
	}

	return Page{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Get returns one of the owner's contacts
func (s *Service) Get(ctx context.Context, owner uuid.UUID, rawID string) (*Contact, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	contact, err := s.store.FindOwned(ctx, id, owner)
	if err != nil {
		return nil, s.storeError("get", err)
	}
	return contact, nil
}

// Create stores a new contact for owner. Owner never comes from input.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, input ContactInput) (*Contact, error) {
	if input.IsEmpty() {
		return nil, ErrMissingFields
	}

	if err := input.ValidateCreate(); err != nil {
		return nil, auth.NewValidationError(err)
	}

	patch := input.Patch()
	contact := &Contact{
		Name:  *patch.Name,
		Owner: owner,
	}
	if patch.Email != nil {
		contact.Email = *patch.Email
	}
	if patch.Phone != nil {
		contact.Phone = *patch.Phone
	}
	if patch.Favorite != nil {
		contact.Favorite = *patch.Favorite
	}

	created, err := s.store.Create(ctx, contact)
	if err != nil {
		s.logger.Error("contacts create error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create contact")
	}
	return created, nil
}

// Update merges input into one of the owner's contacts
func (s *Service) Update(ctx context.Context, owner uuid.UUID, rawID string, input ContactInput) (*Contact, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	if input.IsEmpty() {
		return nil, ErrMissingFields
	}

	if err := input.ValidateUpdate(); err != nil {
		return nil, auth.NewValidationError(err)
	}

	contact, err := s.store.UpdateOwned(ctx, id, owner, input.Patch())
	if err != nil {
		return nil, s.storeError("update", err)
	}
	return contact, nil
}

// SetFavorite toggles the favorite flag of one of the owner's contacts
func (s *Service) SetFavorite(ctx context.Context, owner uuid.UUID, rawID string, input FavoriteInput) (*Contact, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	if input.Favorite == nil {
		return nil, ErrMissingFavorite
	}

	contact, err := s.store.UpdateOwned(ctx, id, owner, Patch{Favorite: input.Favorite})
	if err != nil {
		return nil, s.storeError("favorite", err)
	}
	return contact, nil
}

// Delete removes one of the owner's contacts
func (s *Service) Delete(ctx context.Context, owner uuid.UUID, rawID string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteOwned(ctx, id, owner); err != nil {
		return s.storeError("delete", err)
	}
	return nil
}

func (s *Service) storeError(op string, err error) error {
	if repository.IsRecordNotFound(err) {
		return ErrContactNotFound
	}
	s.logger.Error("contacts %s error", op, "error", err)
	return errors.Wrap(err, errors.CategoryInternal, "contact storage failure")
}
