package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aurylabs/aury-backend/pkg/config"
	"github.com/aurylabs/aury-backend/pkg/db/models"
	"github.com/aurylabs/aury-backend/pkg/enums"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
	"github.com/aurylabs/aury-backend/pkg/pagination"
)

// Service carries the conversation between a storefront session and the
// store dashboard.
type Service interface {
	Post(ctx context.Context, storeID uuid.UUID, sessionID string, sender enums.ChatSender, body string) (*MessageDTO, error)
	Messages(ctx context.Context, storeID uuid.UUID, sessionID string, params pagination.Params) (*ThreadDTO, error)
	Conversations(ctx context.Context, storeID uuid.UUID) ([]ConversationDTO, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type service struct {
	repo Repository
	cfg  config.ChatConfig
}

// NewService builds the chat service.
func NewService(repo Repository, cfg config.ChatConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("chat repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

func (s *service) Post(ctx context.Context, storeID uuid.UUID, sessionID string, sender enums.ChatSender, body string) (*MessageDTO, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if !sender.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sender")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	if s.cfg.MaxBodyLen > 0 && len([]rune(body)) > s.cfg.MaxBodyLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message too long").
			WithDetails(map[string]int{"max_length": s.cfg.MaxBodyLen})
	}

	message := &models.ChatMessage{
		StoreID:   storeID,
		SessionID: sessionID,
		Sender:    sender,
		Body:      body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store message")
	}

	dto := messageFromModel(message)
	return &dto, nil
}

// Messages returns one page of a thread, oldest first within the page.
func (s *service) Messages(ctx context.Context, storeID uuid.UUID, sessionID string, params pagination.Params) (*ThreadDTO, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	messages, err := s.repo.ListBySession(ctx, storeID, sessionID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}

	thread := &ThreadDTO{}
	if len(messages) > limit {
		last := messages[limit-1]
		thread.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		messages = messages[:limit]
	}

	thread.Messages = make([]MessageDTO, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		thread.Messages = append(thread.Messages, messageFromModel(&messages[i]))
	}
	return thread, nil
}

func (s *service) Conversations(ctx context.Context, storeID uuid.UUID) ([]ConversationDTO, error) {
	latest, err := s.repo.LatestPerSession(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}

	out := make([]ConversationDTO, 0, len(latest))
	for _, message := range latest {
		out = append(out, ConversationDTO{
			SessionID:   message.SessionID,
			LastSender:  message.Sender,
			LastBody:    message.Body,
			LastMessage: message.CreatedAt,
		})
	}
	return out, nil
}

func (s *service) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purge messages")
	}
	return deleted, nil
}
