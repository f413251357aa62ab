package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurylabs/aury-backend/pkg/db/models"
	"github.com/aurylabs/aury-backend/pkg/enums"
)

// OrderItemDTO is the immutable snapshot of one cart line at placement.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// OrderDTO is the transport shape for one order.
type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	Number        int                 `json:"number"`
	StoreID       uuid.UUID           `json:"store_id"`
	SessionID     string              `json:"session_id,omitempty"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Notes         *string             `json:"notes,omitempty"`
	Total         decimal.Decimal     `json:"total"`
	Status        enums.OrderStatus   `json:"status"`
	Items         []OrderItemDTO      `json:"items"`
	PlacedAt      time.Time           `json:"placed_at"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
}

// StatusCounts partitions the store's orders by status for the board header.
type StatusCounts struct {
	New       int64 `json:"new"`
	Preparing int64 `json:"preparing"`
	Ready     int64 `json:"ready"`
	Completed int64 `json:"completed"`
}

// BoardDTO is the dashboard board: counts over the full set plus the
// filtered list. Both are read-only projections.
type BoardDTO struct {
	Counts StatusCounts `json:"counts"`
	Orders []OrderDTO   `json:"orders"`
}

// StatsDTO summarizes today's activity for the dashboard landing page.
type StatsDTO struct {
	TodayOrders          int64           `json:"today_orders"`
	TodayRevenue         decimal.Decimal `json:"today_revenue"`
	CompletionRate       float64         `json:"completion_rate"`
	AvgCompletionMinutes float64         `json:"avg_completion_minutes"`
	Recent               []OrderDTO      `json:"recent"`
}

// PageDTO carries one cursor page of orders.
type PageDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps a persisted order into its DTO.
func FromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}

	dto := &OrderDTO{
		ID:            m.ID,
		Number:        m.Number,
		StoreID:       m.StoreID,
		SessionID:     m.SessionID,
		CustomerName:  m.CustomerName,
		CustomerPhone: m.CustomerPhone,
		PaymentMethod: m.PaymentMethod,
		Notes:         m.Notes,
		Total:         m.Total,
		Status:        m.Status,
		Items:         make([]OrderItemDTO, 0, len(m.Items)),
		PlacedAt:      m.PlacedAt,
		CompletedAt:   m.CompletedAt,
	}
	for _, item := range m.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return dto
}

func fromModels(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *FromModel(&orders[i]))
	}
	return out
}
