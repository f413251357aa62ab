package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/pkg/db/models"
)

// Repository handles catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateCategory persists a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// FindCategory loads a category scoped to the store.
func (r *Repository) FindCategory(ctx context.Context, storeID, categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, categoryID).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns the store's categories with products, both in
// position order.
func (r *Repository) ListCategories(ctx context.Context, storeID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Where("store_id = ?", storeID).
		Order("position ASC, created_at ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// CountCategories counts the store's categories.
func (r *Repository) CountCategories(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

// UpdateCategory saves the provided category.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteCategory removes the category and, via FK cascade, its products.
func (r *Repository) DeleteCategory(ctx context.Context, storeID, categoryID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, categoryID).
		Delete(&models.Category{}).Error
}

// CreateProduct persists a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindProduct loads a product scoped to the store.
func (r *Repository) FindProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, productID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CountProducts counts products inside one category.
func (r *Repository) CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// UpdateProduct saves the provided product.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// DeleteProduct removes a product scoped to the store.
func (r *Repository) DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, productID).
		Delete(&models.Product{}).Error
}
