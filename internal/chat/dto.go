package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurylabs/aury-backend/pkg/db/models"
	"github.com/aurylabs/aury-backend/pkg/enums"
)

// MessageDTO is one chat line on the wire.
type MessageDTO struct {
	ID        uuid.UUID        `json:"id"`
	SessionID string           `json:"session_id"`
	Sender    enums.ChatSender `json:"sender"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
}

// ConversationDTO summarizes one session's thread for the dashboard inbox.
type ConversationDTO struct {
	SessionID   string           `json:"session_id"`
	LastSender  enums.ChatSender `json:"last_sender"`
	LastBody    string           `json:"last_body"`
	LastMessage time.Time        `json:"last_message_at"`
}

// ThreadDTO carries one page of a conversation, oldest first.
type ThreadDTO struct {
	Messages   []MessageDTO `json:"messages"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func messageFromModel(m *models.ChatMessage) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		SessionID: m.SessionID,
		Sender:    m.Sender,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}
