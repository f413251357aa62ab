package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents the canonical tenant model. One owner account maps to at
// most one store; the slug is the public storefront identifier.
type Store struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID         uuid.UUID `gorm:"column:owner_id;type:uuid;not null;uniqueIndex"`
	Name            string    `gorm:"column:name;not null"`
	Slug            string    `gorm:"column:slug;not null;uniqueIndex"`
	Description     *string   `gorm:"column:description"`
	Phone           *string   `gorm:"column:phone"`
	Address         *string   `gorm:"column:address"`
	PrepTimeMinutes int       `gorm:"column:prep_time_minutes;not null;default:20"`
	IsOpen          bool      `gorm:"column:is_open;not null;default:true"`
	AcceptsPix      bool      `gorm:"column:accepts_pix;not null;default:true"`
	AcceptsCredit   bool      `gorm:"column:accepts_credit;not null;default:true"`
	AcceptsDebit    bool      `gorm:"column:accepts_debit;not null;default:true"`
	AcceptsCash     bool      `gorm:"column:accepts_cash;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
