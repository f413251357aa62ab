package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/pkg/db/models"
	"github.com/aurylabs/aury-backend/pkg/pagination"
)

// Repository exposes persistence for storefront conversations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, message *models.ChatMessage) error
	ListBySession(ctx context.Context, storeID uuid.UUID, sessionID string, cursor *pagination.Cursor, limit int) ([]models.ChatMessage, error)
	LatestPerSession(ctx context.Context, storeID uuid.UUID) ([]models.ChatMessage, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a chat repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *repository) ListBySession(ctx context.Context, storeID uuid.UUID, sessionID string, cursor *pagination.Cursor, limit int) ([]models.ChatMessage, error) {
	q := r.db.WithContext(ctx).
		Where("store_id = ? AND session_id = ?", storeID, sessionID)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var messages []models.ChatMessage
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// LatestPerSession returns the newest message of each conversation, newest
// conversation first.
func (r *repository) LatestPerSession(ctx context.Context, storeID uuid.UUID) ([]models.ChatMessage, error) {
	sub := r.db.
		Model(&models.ChatMessage{}).
		Select("session_id, MAX(created_at) AS last_at").
		Where("store_id = ?", storeID).
		Group("session_id")

	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Joins("JOIN (?) latest ON chat_messages.session_id = latest.session_id AND chat_messages.created_at = latest.last_at", sub).
		Where("chat_messages.store_id = ?", storeID).
		Order("chat_messages.created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.ChatMessage{})
	return result.RowsAffected, result.Error
}
