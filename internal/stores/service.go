package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/pkg/db/models"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
	"github.com/aurylabs/aury-backend/pkg/slug"
)

type storeRepository interface {
	Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Store, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, store *models.Store) error
}

// Service exposes store operations.
type Service interface {
	ResolveSlug(ctx context.Context, storeSlug string) (*PublicStoreDTO, error)
	Create(ctx context.Context, ownerID uuid.UUID, name string) (*StoreDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*StoreDTO, error)
	Update(ctx context.Context, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

// UpdateStoreInput captures the allowed store settings for mutation. Nil
// fields are left untouched.
type UpdateStoreInput struct {
	Name            *string
	Slug            *string
	Description     *string
	Phone           *string
	Address         *string
	PrepTimeMinutes *int
	IsOpen          *bool
	Payments        *Payments
}

func (s *service) ResolveSlug(ctx context.Context, storeSlug string) (*PublicStoreDTO, error) {
	normalized := strings.TrimSpace(strings.ToLower(storeSlug))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	store, err := s.repo.FindBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve slug")
	}
	return PublicFromModel(store), nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, name string) (*StoreDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}

	storeSlug := slug.Make(name)
	if storeSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name yields an empty slug")
	}

	if _, err := s.repo.FindByOwner(ctx, ownerID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "account already has a store")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check owner store")
	}

	taken, err := s.repo.SlugExists(ctx, storeSlug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use").
			WithDetails(map[string]string{"slug": storeSlug})
	}

	store, err := s.repo.Create(ctx, CreateStoreDTO{OwnerID: ownerID, Name: name, Slug: storeSlug})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return FromModel(store), nil
}

func (s *service) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return FromModel(store), nil
}

func (s *service) Update(ctx context.Context, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
		store.Name = name
	}
	if input.Slug != nil {
		newSlug := slug.Make(*input.Slug)
		if newSlug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug cannot be empty")
		}
		if newSlug != store.Slug {
			taken, err := s.repo.SlugExists(ctx, newSlug)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
			}
			if taken {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use").
					WithDetails(map[string]string{"slug": newSlug})
			}
			store.Slug = newSlug
		}
	}
	if input.Description != nil {
		store.Description = cloneStringPtr(input.Description)
	}
	if input.Phone != nil {
		store.Phone = cloneStringPtr(input.Phone)
	}
	if input.Address != nil {
		store.Address = cloneStringPtr(input.Address)
	}
	if input.PrepTimeMinutes != nil {
		if *input.PrepTimeMinutes <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "prep time must be positive")
		}
		store.PrepTimeMinutes = *input.PrepTimeMinutes
	}
	if input.IsOpen != nil {
		store.IsOpen = *input.IsOpen
	}
	if input.Payments != nil {
		store.AcceptsPix = input.Payments.Pix
		store.AcceptsCredit = input.Payments.Credit
		store.AcceptsDebit = input.Payments.Debit
		store.AcceptsCash = input.Payments.Cash
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return FromModel(store), nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	if strings.TrimSpace(cpy) == "" {
		return nil
	}
	return &cpy
}
