package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurylabs/aury-backend/pkg/enums"
)

// Order is an immutable snapshot of a checked-out cart. Only the status
// column mutates after placement; orders are never deleted.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	Number        int                 `gorm:"column:number;not null;index:idx_orders_store_number,unique,composite:store_id"`
	SessionID     string              `gorm:"column:session_id;not null"`
	CustomerName  string              `gorm:"column:customer_name;not null"`
	CustomerPhone string              `gorm:"column:customer_phone;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Notes         *string             `gorm:"column:notes"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'new'"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt      time.Time           `gorm:"column:placed_at;not null"`
	CompletedAt   *time.Time          `gorm:"column:completed_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem captures the name and unit price of a cart line at placement
// time so later catalog edits cannot rewrite history.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name      string          `gorm:"column:name;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
