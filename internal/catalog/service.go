package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/pkg/db/models"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
)

type catalogRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	FindCategory(ctx context.Context, storeID, categoryID uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, storeID uuid.UUID) ([]models.Category, error)
	CountCategories(ctx context.Context, storeID uuid.UUID) (int64, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, storeID, categoryID uuid.UUID) error
	CreateProduct(ctx context.Context, product *models.Product) error
	FindProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error)
	CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error
}

// Service exposes menu management and read views.
type Service interface {
	AddCategory(ctx context.Context, storeID uuid.UUID, name string) (*CategoryDTO, error)
	RenameCategory(ctx context.Context, storeID, categoryID uuid.UUID, name string) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, storeID, categoryID uuid.UUID) error
	AddProduct(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error
	ToggleActive(ctx context.Context, storeID, categoryID, productID uuid.UUID) (*ProductDTO, error)
	Menu(ctx context.Context, storeID uuid.UUID, query string) ([]CategoryDTO, error)
	StorefrontCatalog(ctx context.Context, storeID uuid.UUID) ([]CategoryDTO, error)
}

type service struct {
	repo catalogRepository
}

// NewService builds a catalog service with the provided repository.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) AddCategory(ctx context.Context, storeID uuid.UUID, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	count, err := s.repo.CountCategories(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count categories")
	}

	category := &models.Category{
		StoreID:  storeID,
		Name:     name,
		Position: int(count) + 1,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	dto := categoryFromModel(category)
	return &dto, nil
}

func (s *service) RenameCategory(ctx context.Context, storeID, categoryID uuid.UUID, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category, err := s.findCategory(ctx, storeID, categoryID)
	if err != nil {
		return nil, err
	}
	category.Name = name
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	dto := categoryFromModel(category)
	return &dto, nil
}

func (s *service) DeleteCategory(ctx context.Context, storeID, categoryID uuid.UUID) error {
	if _, err := s.findCategory(ctx, storeID, categoryID); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, storeID, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) AddProduct(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	category, err := s.findCategory(ctx, storeID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountProducts(ctx, category.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}

	product := &models.Product{
		StoreID:     storeID,
		CategoryID:  category.ID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Active:      true,
		Position:    int(count) + 1,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	dto := productFromModel(product)
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.CategoryID != nil && *input.CategoryID != product.CategoryID {
		category, err := s.findCategory(ctx, storeID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = category.ID
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	dto := productFromModel(product)
	return &dto, nil
}

func (s *service) DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error {
	if _, err := s.findProduct(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, storeID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) ToggleActive(ctx context.Context, storeID, categoryID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if product.CategoryID != categoryID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found in category")
	}

	product.Active = !product.Active
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle product")
	}
	dto := productFromModel(product)
	return &dto, nil
}

// Menu returns the dashboard view. An empty query returns every category,
// empty ones included; a non-empty query keeps only categories with at
// least one product whose name or description contains it.
func (s *service) Menu(ctx context.Context, storeID uuid.UUID, query string) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}

	query = strings.TrimSpace(query)
	result := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dto := categoryFromModel(&categories[i])
		if query == "" {
			result = append(result, dto)
			continue
		}
		dto.Products = filterProducts(dto.Products, query)
		if len(dto.Products) > 0 {
			result = append(result, dto)
		}
	}
	return result, nil
}

// StorefrontCatalog returns the public view with inactive products hidden.
func (s *service) StorefrontCatalog(ctx context.Context, storeID uuid.UUID) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}

	result := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dto := categoryFromModel(&categories[i])
		active := dto.Products[:0]
		for _, p := range dto.Products {
			if p.Active {
				active = append(active, p)
			}
		}
		dto.Products = active
		result = append(result, dto)
	}
	return result, nil
}

func (s *service) findCategory(ctx context.Context, storeID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindCategory(ctx, storeID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) findProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func filterProducts(products []ProductDTO, query string) []ProductDTO {
	needle := strings.ToLower(query)
	matched := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}
