package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurylabs/aury-backend/pkg/db/models"
	"github.com/aurylabs/aury-backend/pkg/enums"
)

// StoreDTO exposes tenant data in dashboard API responses.
type StoreDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     *string   `json:"description,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Address         *string   `json:"address,omitempty"`
	PrepTimeMinutes int       `json:"prep_time_minutes"`
	IsOpen          bool      `json:"is_open"`
	Payments        Payments  `json:"payments"`
	OwnerID         uuid.UUID `json:"owner_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Payments reflects which payment methods a store accepts at checkout.
type Payments struct {
	Pix    bool `json:"pix"`
	Credit bool `json:"credit"`
	Debit  bool `json:"debit"`
	Cash   bool `json:"cash"`
}

// Accepts reports whether the given payment method is enabled.
func (p Payments) Accepts(method enums.PaymentMethod) bool {
	switch method {
	case enums.PaymentMethodPix:
		return p.Pix
	case enums.PaymentMethodCredit:
		return p.Credit
	case enums.PaymentMethodDebit:
		return p.Debit
	case enums.PaymentMethodCash:
		return p.Cash
	default:
		return false
	}
}

// PublicStoreDTO is the storefront-facing projection. It never exposes the
// owner or timestamps.
type PublicStoreDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     *string   `json:"description,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Address         *string   `json:"address,omitempty"`
	PrepTimeMinutes int       `json:"prep_time_minutes"`
	IsOpen          bool      `json:"is_open"`
	Payments        Payments  `json:"payments"`
}

// CreateStoreDTO holds creation-time data for a new store.
type CreateStoreDTO struct {
	OwnerID uuid.UUID
	Name    string
	Slug    string
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}

	return &StoreDTO{
		ID:              m.ID,
		Name:            m.Name,
		Slug:            m.Slug,
		Description:     m.Description,
		Phone:           m.Phone,
		Address:         m.Address,
		PrepTimeMinutes: m.PrepTimeMinutes,
		IsOpen:          m.IsOpen,
		Payments:        paymentsFromModel(m),
		OwnerID:         m.OwnerID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// PublicFromModel maps the persisted store into its storefront projection.
func PublicFromModel(m *models.Store) *PublicStoreDTO {
	if m == nil {
		return nil
	}

	return &PublicStoreDTO{
		ID:              m.ID,
		Name:            m.Name,
		Slug:            m.Slug,
		Description:     m.Description,
		Phone:           m.Phone,
		Address:         m.Address,
		PrepTimeMinutes: m.PrepTimeMinutes,
		IsOpen:          m.IsOpen,
		Payments:        paymentsFromModel(m),
	}
}

func paymentsFromModel(m *models.Store) Payments {
	return Payments{
		Pix:    m.AcceptsPix,
		Credit: m.AcceptsCredit,
		Debit:  m.AcceptsDebit,
		Cash:   m.AcceptsCash,
	}
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateStoreDTO) ToModel() *models.Store {
	return &models.Store{
		OwnerID:         c.OwnerID,
		Name:            c.Name,
		Slug:            c.Slug,
		PrepTimeMinutes: 20,
		IsOpen:          true,
		AcceptsPix:      true,
		AcceptsCredit:   true,
		AcceptsDebit:    true,
		AcceptsCash:     true,
	}
}
