package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurylabs/aury-backend/pkg/enums"
)

// ChatMessage is one line in the conversation between a storefront session
// and the store's dashboard.
type ChatMessage struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index:idx_chat_store_session"`
	SessionID string           `gorm:"column:session_id;not null;index:idx_chat_store_session"`
	Sender    enums.ChatSender `gorm:"column:sender;not null"`
	Body      string           `gorm:"column:body;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}
