package stores

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/pkg/db/models"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
)

type stubStoreRepo struct {
	bySlug  map[string]*models.Store
	byID    map[uuid.UUID]*models.Store
	byOwner map[uuid.UUID]*models.Store
	created []CreateStoreDTO
	updated *models.Store
	slugErr error
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{
		bySlug:  map[string]*models.Store{},
		byID:    map[uuid.UUID]*models.Store{},
		byOwner: map[uuid.UUID]*models.Store{},
	}
}

func (s *stubStoreRepo) add(store *models.Store) {
	s.bySlug[store.Slug] = store
	s.byID[store.ID] = store
	s.byOwner[store.OwnerID] = store
}

func (s *stubStoreRepo) Create(_ context.Context, dto CreateStoreDTO) (*models.Store, error) {
	s.created = append(s.created, dto)
	store := dto.ToModel()
	store.ID = uuid.New()
	s.add(store)
	return store, nil
}

func (s *stubStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	if store, ok := s.byID[id]; ok {
		return store, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) FindBySlug(_ context.Context, slug string) (*models.Store, error) {
	if store, ok := s.bySlug[slug]; ok {
		return store, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) (*models.Store, error) {
	if store, ok := s.byOwner[ownerID]; ok {
		return store, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	if s.slugErr != nil {
		return false, s.slugErr
	}
	_, ok := s.bySlug[slug]
	return ok, nil
}

func (s *stubStoreRepo) Update(_ context.Context, store *models.Store) error {
	s.updated = store
	s.add(store)
	return nil
}

func TestCreateDerivesSlug(t *testing.T) {
	repo := newStubStoreRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	dto, err := svc.Create(context.Background(), uuid.New(), "Café Central")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if dto.Slug != "cafe-central" {
		t.Fatalf("expected slug cafe-central, got %q", dto.Slug)
	}
	if !dto.IsOpen || !dto.Payments.Pix || !dto.Payments.Cash {
		t.Fatalf("expected open store with default payments, got %+v", dto)
	}
}

func TestCreateDuplicateSlugConflicts(t *testing.T) {
	repo := newStubStoreRepo()
	repo.add(&models.Store{ID: uuid.New(), OwnerID: uuid.New(), Name: "Cafe Central", Slug: "cafe-central"})
	svc, _ := NewService(repo)

	_, err := svc.Create(context.Background(), uuid.New(), "Café Central")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestResolveSlug(t *testing.T) {
	repo := newStubStoreRepo()
	store := &models.Store{
		ID:         uuid.New(),
		OwnerID:    uuid.New(),
		Name:       "Cafe Central",
		Slug:       "cafe-central",
		IsOpen:     true,
		AcceptsPix: true,
	}
	repo.add(store)
	svc, _ := NewService(repo)

	dto, err := svc.ResolveSlug(context.Background(), "cafe-central")
	if err != nil {
		t.Fatalf("ResolveSlug returned error: %v", err)
	}
	if dto.ID != store.ID || dto.Name != "Cafe Central" {
		t.Fatalf("unexpected dto %+v", dto)
	}

	_, err = svc.ResolveSlug(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for unknown slug, got %v", err)
	}
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	repo := newStubStoreRepo()
	desc := "old description"
	store := &models.Store{
		ID:              uuid.New(),
		OwnerID:         uuid.New(),
		Name:            "Cafe Central",
		Slug:            "cafe-central",
		Description:     &desc,
		PrepTimeMinutes: 20,
		IsOpen:          true,
		AcceptsPix:      true,
		AcceptsCredit:   true,
	}
	repo.add(store)
	svc, _ := NewService(repo)

	closed := false
	prep := 35
	dto, err := svc.Update(context.Background(), store.ID, UpdateStoreInput{
		IsOpen:          &closed,
		PrepTimeMinutes: &prep,
		Payments:        &Payments{Pix: true, Cash: true},
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if dto.IsOpen {
		t.Fatal("expected store to be closed")
	}
	if dto.PrepTimeMinutes != 35 {
		t.Fatalf("expected prep time 35, got %d", dto.PrepTimeMinutes)
	}
	if dto.Name != "Cafe Central" || dto.Description == nil || *dto.Description != "old description" {
		t.Fatalf("untouched fields changed: %+v", dto)
	}
	if dto.Payments.Credit {
		t.Fatal("expected credit disabled after payments update")
	}
}

func TestUpdateSlugCollision(t *testing.T) {
	repo := newStubStoreRepo()
	store := &models.Store{ID: uuid.New(), OwnerID: uuid.New(), Name: "A", Slug: "a"}
	other := &models.Store{ID: uuid.New(), OwnerID: uuid.New(), Name: "B", Slug: "b"}
	repo.add(store)
	repo.add(other)
	svc, _ := NewService(repo)

	conflicting := "B"
	_, err := svc.Update(context.Background(), store.ID, UpdateStoreInput{Slug: &conflicting})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT on slug collision, got %v", err)
	}
}

func TestUpdateRejectsNonPositivePrepTime(t *testing.T) {
	repo := newStubStoreRepo()
	store := &models.Store{ID: uuid.New(), OwnerID: uuid.New(), Name: "A", Slug: "a", PrepTimeMinutes: 20}
	repo.add(store)
	svc, _ := NewService(repo)

	zero := 0
	_, err := svc.Update(context.Background(), store.ID, UpdateStoreInput{PrepTimeMinutes: &zero})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
