package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurylabs/aury-backend/pkg/db/models"
)

// CategoryDTO carries a menu category and its products in display order.
type CategoryDTO struct {
	ID       uuid.UUID    `json:"id"`
	Name     string       `json:"name"`
	Position int          `json:"position"`
	Products []ProductDTO `json:"products"`
}

// ProductDTO is the transport shape for a menu item.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
	Position    int             `json:"position"`
}

// CreateProductInput holds the fields required to add a product.
type CreateProductInput struct {
	CategoryID  uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
}

// UpdateProductInput captures partial product edits. Nil fields stay as-is.
type UpdateProductInput struct {
	CategoryID  *uuid.UUID
	Name        *string
	Description *string
	Price       *decimal.Decimal
}

func categoryFromModel(m *models.Category) CategoryDTO {
	dto := CategoryDTO{
		ID:       m.ID,
		Name:     m.Name,
		Position: m.Position,
		Products: make([]ProductDTO, 0, len(m.Products)),
	}
	for i := range m.Products {
		dto.Products = append(dto.Products, productFromModel(&m.Products[i]))
	}
	return dto
}

func productFromModel(m *models.Product) ProductDTO {
	return ProductDTO{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Active:      m.Active,
		Position:    m.Position,
	}
}
