package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/pkg/db/models"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
)

type stubCatalogRepo struct {
	categories []*models.Category
	products   []*models.Product
	updated    []*models.Product
}

func (s *stubCatalogRepo) CreateCategory(_ context.Context, category *models.Category) error {
	category.ID = uuid.New()
	s.categories = append(s.categories, category)
	return nil
}

func (s *stubCatalogRepo) FindCategory(_ context.Context, storeID, categoryID uuid.UUID) (*models.Category, error) {
	for _, c := range s.categories {
		if c.StoreID == storeID && c.ID == categoryID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) ListCategories(_ context.Context, storeID uuid.UUID) ([]models.Category, error) {
	var out []models.Category
	for _, c := range s.categories {
		if c.StoreID != storeID {
			continue
		}
		cpy := *c
		cpy.Products = nil
		for _, p := range s.products {
			if p.CategoryID == c.ID {
				cpy.Products = append(cpy.Products, *p)
			}
		}
		out = append(out, cpy)
	}
	return out, nil
}

func (s *stubCatalogRepo) CountCategories(_ context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	for _, c := range s.categories {
		if c.StoreID == storeID {
			count++
		}
	}
	return count, nil
}

func (s *stubCatalogRepo) UpdateCategory(_ context.Context, _ *models.Category) error { return nil }

func (s *stubCatalogRepo) DeleteCategory(_ context.Context, storeID, categoryID uuid.UUID) error {
	kept := s.categories[:0]
	for _, c := range s.categories {
		if !(c.StoreID == storeID && c.ID == categoryID) {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	return nil
}

func (s *stubCatalogRepo) CreateProduct(_ context.Context, product *models.Product) error {
	product.ID = uuid.New()
	s.products = append(s.products, product)
	return nil
}

func (s *stubCatalogRepo) FindProduct(_ context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	for _, p := range s.products {
		if p.StoreID == storeID && p.ID == productID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) CountProducts(_ context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (s *stubCatalogRepo) UpdateProduct(_ context.Context, product *models.Product) error {
	s.updated = append(s.updated, product)
	return nil
}

func (s *stubCatalogRepo) DeleteProduct(_ context.Context, storeID, productID uuid.UUID) error {
	kept := s.products[:0]
	for _, p := range s.products {
		if !(p.StoreID == storeID && p.ID == productID) {
			kept = append(kept, p)
		}
	}
	s.products = kept
	return nil
}

func seedCatalog(t *testing.T, repo *stubCatalogRepo, storeID uuid.UUID) (uuid.UUID, uuid.UUID) {
	t.Helper()
	burgers := &models.Category{ID: uuid.New(), StoreID: storeID, Name: "Burgers", Position: 1}
	drinks := &models.Category{ID: uuid.New(), StoreID: storeID, Name: "Drinks", Position: 2}
	repo.categories = append(repo.categories, burgers, drinks)
	repo.products = append(repo.products,
		&models.Product{ID: uuid.New(), StoreID: storeID, CategoryID: burgers.ID, Name: "Cheeseburger", Description: "beef and cheddar", Price: decimal.NewFromFloat(9.90), Active: true},
		&models.Product{ID: uuid.New(), StoreID: storeID, CategoryID: burgers.ID, Name: "Veggie Burger", Description: "plant based", Price: decimal.NewFromFloat(8.50), Active: false},
		&models.Product{ID: uuid.New(), StoreID: storeID, CategoryID: drinks.ID, Name: "Lemonade", Description: "fresh squeezed", Price: decimal.NewFromFloat(3.00), Active: true},
	)
	return burgers.ID, drinks.ID
}

func TestAddCategoryValidatesName(t *testing.T) {
	svc, _ := NewService(&stubCatalogRepo{})

	_, err := svc.AddCategory(context.Background(), uuid.New(), "   ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestAddCategoryAssignsPosition(t *testing.T) {
	repo := &stubCatalogRepo{}
	storeID := uuid.New()
	seedCatalog(t, repo, storeID)
	svc, _ := NewService(repo)

	dto, err := svc.AddCategory(context.Background(), storeID, "Desserts")
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if dto.Position != 3 {
		t.Fatalf("expected position 3, got %d", dto.Position)
	}
}

func TestAddProductValidations(t *testing.T) {
	repo := &stubCatalogRepo{}
	storeID := uuid.New()
	burgersID, _ := seedCatalog(t, repo, storeID)
	svc, _ := NewService(repo)

	_, err := svc.AddProduct(context.Background(), storeID, CreateProductInput{
		CategoryID: burgersID,
		Name:       "Bacon Burger",
		Price:      decimal.NewFromInt(-1),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for negative price, got %v", err)
	}

	_, err = svc.AddProduct(context.Background(), storeID, CreateProductInput{
		CategoryID: uuid.New(),
		Name:       "Bacon Burger",
		Price:      decimal.NewFromInt(10),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for missing category, got %v", err)
	}

	dto, err := svc.AddProduct(context.Background(), storeID, CreateProductInput{
		CategoryID:  burgersID,
		Name:        "  Bacon Burger  ",
		Description: "smoked bacon",
		Price:       decimal.NewFromFloat(11.50),
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if dto.Name != "Bacon Burger" || !dto.Active {
		t.Fatalf("unexpected product %+v", dto)
	}
}

func TestToggleActiveFlipsOnlyActive(t *testing.T) {
	repo := &stubCatalogRepo{}
	storeID := uuid.New()
	burgersID, _ := seedCatalog(t, repo, storeID)
	svc, _ := NewService(repo)

	target := repo.products[0]
	before := *target

	dto, err := svc.ToggleActive(context.Background(), storeID, burgersID, target.ID)
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if dto.Active == before.Active {
		t.Fatal("expected active flag to flip")
	}
	if dto.Name != before.Name || !dto.Price.Equal(before.Price) || dto.CategoryID != before.CategoryID {
		t.Fatalf("toggle mutated unrelated fields: %+v", dto)
	}
}

func TestToggleActiveWrongCategory(t *testing.T) {
	repo := &stubCatalogRepo{}
	storeID := uuid.New()
	_, drinksID := seedCatalog(t, repo, storeID)
	svc, _ := NewService(repo)

	burgerProduct := repo.products[0]
	_, err := svc.ToggleActive(context.Background(), storeID, drinksID, burgerProduct.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for category mismatch, got %v", err)
	}
}

func TestMenuSearchSemantics(t *testing.T) {
	repo := &stubCatalogRepo{}
	storeID := uuid.New()
	seedCatalog(t, repo, storeID)
	repo.categories = append(repo.categories, &models.Category{ID: uuid.New(), StoreID: storeID, Name: "Empty", Position: 3})
	svc, _ := NewService(repo)

	all, err := svc.Menu(context.Background(), storeID, "")
	if err != nil {
		t.Fatalf("Menu: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("empty query should return every category, got %d", len(all))
	}

	filtered, err := svc.Menu(context.Background(), storeID, "BURGER")
	if err != nil {
		t.Fatalf("Menu: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "Burgers" {
		t.Fatalf("expected only Burgers category, got %+v", filtered)
	}
	if len(filtered[0].Products) != 2 {
		t.Fatalf("expected both burgers (inactive included), got %d", len(filtered[0].Products))
	}

	byDescription, err := svc.Menu(context.Background(), storeID, "squeezed")
	if err != nil {
		t.Fatalf("Menu: %v", err)
	}
	if len(byDescription) != 1 || byDescription[0].Name != "Drinks" {
		t.Fatalf("expected description match in Drinks, got %+v", byDescription)
	}
}

func TestStorefrontCatalogHidesInactive(t *testing.T) {
	repo := &stubCatalogRepo{}
	storeID := uuid.New()
	seedCatalog(t, repo, storeID)
	svc, _ := NewService(repo)

	categories, err := svc.StorefrontCatalog(context.Background(), storeID)
	if err != nil {
		t.Fatalf("StorefrontCatalog: %v", err)
	}
	for _, c := range categories {
		for _, p := range c.Products {
			if !p.Active {
				t.Fatalf("inactive product leaked into storefront: %+v", p)
			}
		}
	}
	if len(categories) != 2 {
		t.Fatalf("expected both categories present, got %d", len(categories))
	}
	if len(categories[0].Products) != 1 {
		t.Fatalf("expected one active burger, got %d", len(categories[0].Products))
	}
}
