package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/pkg/db/models"
	"github.com/aurylabs/aury-backend/pkg/enums"
	"github.com/aurylabs/aury-backend/pkg/pagination"
)

// Repository exposes order persistence. WithTx rebinds it to an open
// transaction so checkout can insert the order and its items atomically.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	NextNumber(ctx context.Context, storeID uuid.UUID) (int, error)
	FindByID(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order) error
	CountsByStatus(ctx context.Context, storeID uuid.UUID) (map[enums.OrderStatus]int64, error)
	ListFiltered(ctx context.Context, storeID uuid.UUID, status *enums.OrderStatus, query string) ([]models.Order, error)
	ListSince(ctx context.Context, storeID uuid.UUID, since time.Time) ([]models.Order, error)
	ListRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.Order, error)
	ListPage(ctx context.Context, storeID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// NextNumber returns the next per-store display number. Callers must run it
// inside the same transaction as the insert to keep the sequence gapless
// under the unique (store_id, number) index.
func (r *repository) NextNumber(ctx context.Context, storeID uuid.UUID) (int, error) {
	var current int
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("store_id = ?", storeID).
		Select("COALESCE(MAX(number), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

func (r *repository) FindByID(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("store_id = ? AND id = ?", storeID, orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateStatus(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":       order.Status,
			"completed_at": order.CompletedAt,
		}).Error
}

func (r *repository) CountsByStatus(ctx context.Context, storeID uuid.UUID) (map[enums.OrderStatus]int64, error) {
	type row struct {
		Status enums.OrderStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("store_id = ?", storeID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *repository) ListFiltered(ctx context.Context, storeID uuid.UUID, status *enums.OrderStatus, query string) ([]models.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ?", storeID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if needle := strings.TrimSpace(query); needle != "" {
		pattern := "%" + strings.ToLower(needle) + "%"
		q = q.Where("LOWER(customer_name) LIKE ? OR CAST(number AS TEXT) LIKE ?", pattern, pattern)
	}

	var orders []models.Order
	if err := q.Order("placed_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListSince(ctx context.Context, storeID uuid.UUID, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND placed_at >= ?", storeID, since).
		Order("placed_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ?", storeID).
		Order("placed_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListPage(ctx context.Context, storeID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ?", storeID)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
