package chat

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/pkg/config"
	"github.com/aurylabs/aury-backend/pkg/db/models"
	"github.com/aurylabs/aury-backend/pkg/enums"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
	"github.com/aurylabs/aury-backend/pkg/pagination"
)

type stubChatRepo struct {
	messages []models.ChatMessage
	now      time.Time
}

func newStubChatRepo() *stubChatRepo {
	return &stubChatRepo{now: time.Now().UTC()}
}

func (s *stubChatRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubChatRepo) Create(_ context.Context, message *models.ChatMessage) error {
	message.ID = uuid.New()
	s.now = s.now.Add(time.Millisecond)
	message.CreatedAt = s.now
	s.messages = append(s.messages, *message)
	return nil
}

func (s *stubChatRepo) ListBySession(_ context.Context, storeID uuid.UUID, sessionID string, cursor *pagination.Cursor, limit int) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range s.messages {
		if m.StoreID != storeID || m.SessionID != sessionID {
			continue
		}
		if cursor != nil && !m.CreatedAt.Before(cursor.CreatedAt) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubChatRepo) LatestPerSession(_ context.Context, storeID uuid.UUID) ([]models.ChatMessage, error) {
	latest := map[string]models.ChatMessage{}
	for _, m := range s.messages {
		if m.StoreID != storeID {
			continue
		}
		if current, ok := latest[m.SessionID]; !ok || m.CreatedAt.After(current.CreatedAt) {
			latest[m.SessionID] = m
		}
	}
	out := make([]models.ChatMessage, 0, len(latest))
	for _, m := range latest {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *stubChatRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []models.ChatMessage
	var deleted int64
	for _, m := range s.messages {
		if m.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	s.messages = kept
	return deleted, nil
}

func newChatService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, config.ChatConfig{MaxBodyLen: 2000})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestPostAndThread(t *testing.T) {
	repo := newStubChatRepo()
	svc := newChatService(t, repo)
	storeID := uuid.New()
	ctx := context.Background()

	if _, err := svc.Post(ctx, storeID, "sess-1", enums.ChatSenderCustomer, "  Is the kitchen open?  "); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if _, err := svc.Post(ctx, storeID, "sess-1", enums.ChatSenderStore, "Yes, until 10pm."); err != nil {
		t.Fatalf("Post: %v", err)
	}

	thread, err := svc.Messages(ctx, storeID, "sess-1", pagination.Params{})
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(thread.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(thread.Messages))
	}
	if thread.Messages[0].Body != "Is the kitchen open?" {
		t.Fatalf("expected trimmed body oldest first, got %q", thread.Messages[0].Body)
	}
	if thread.Messages[1].Sender != enums.ChatSenderStore {
		t.Fatalf("expected store reply last, got %+v", thread.Messages[1])
	}
}

func TestPostValidation(t *testing.T) {
	svc := newChatService(t, newStubChatRepo())
	storeID := uuid.New()
	ctx := context.Background()

	cases := map[string]func() error{
		"empty body": func() error {
			_, err := svc.Post(ctx, storeID, "sess-1", enums.ChatSenderCustomer, "   ")
			return err
		},
		"too long": func() error {
			_, err := svc.Post(ctx, storeID, "sess-1", enums.ChatSenderCustomer, strings.Repeat("a", 2001))
			return err
		},
		"missing session": func() error {
			_, err := svc.Post(ctx, storeID, "", enums.ChatSenderCustomer, "hello")
			return err
		},
		"bad sender": func() error {
			_, err := svc.Post(ctx, storeID, "sess-1", enums.ChatSender("bot"), "hello")
			return err
		},
	}
	for name, run := range cases {
		err := run()
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected VALIDATION_ERROR, got %v", name, err)
		}
	}
}

func TestPostAcceptsMaxLengthBody(t *testing.T) {
	svc := newChatService(t, newStubChatRepo())

	if _, err := svc.Post(context.Background(), uuid.New(), "sess-1", enums.ChatSenderCustomer, strings.Repeat("a", 2000)); err != nil {
		t.Fatalf("Post at limit: %v", err)
	}
}

func TestConversations(t *testing.T) {
	repo := newStubChatRepo()
	svc := newChatService(t, repo)
	storeID := uuid.New()
	ctx := context.Background()

	if _, err := svc.Post(ctx, storeID, "sess-1", enums.ChatSenderCustomer, "first"); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if _, err := svc.Post(ctx, storeID, "sess-2", enums.ChatSenderCustomer, "hello"); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if _, err := svc.Post(ctx, storeID, "sess-1", enums.ChatSenderStore, "latest reply"); err != nil {
		t.Fatalf("Post: %v", err)
	}

	conversations, err := svc.Conversations(ctx, storeID)
	if err != nil {
		t.Fatalf("Conversations: %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(conversations))
	}
	if conversations[0].SessionID != "sess-1" || conversations[0].LastBody != "latest reply" {
		t.Fatalf("expected sess-1 with latest reply first, got %+v", conversations[0])
	}
}

func TestMessagesPaging(t *testing.T) {
	repo := newStubChatRepo()
	svc := newChatService(t, repo)
	storeID := uuid.New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Post(ctx, storeID, "sess-1", enums.ChatSenderCustomer, strings.Repeat("x", i+1)); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}

	first, err := svc.Messages(ctx, storeID, "sess-1", pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(first.Messages) != 2 || first.NextCursor == "" {
		t.Fatalf("expected a full page with cursor, got %+v", first)
	}
	if first.Messages[1].Body != "xxx" {
		t.Fatalf("expected newest message at the end of the page, got %q", first.Messages[1].Body)
	}

	second, err := svc.Messages(ctx, storeID, "sess-1", pagination.Params{Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(second.Messages) != 1 || second.Messages[0].Body != "x" {
		t.Fatalf("expected the oldest message on page two, got %+v", second)
	}
	if second.NextCursor != "" {
		t.Fatalf("expected no further pages, got %q", second.NextCursor)
	}
}

func TestPurgeOlderThan(t *testing.T) {
	repo := newStubChatRepo()
	svc := newChatService(t, repo)
	storeID := uuid.New()
	ctx := context.Background()

	if _, err := svc.Post(ctx, storeID, "sess-1", enums.ChatSenderCustomer, "old"); err != nil {
		t.Fatalf("Post: %v", err)
	}
	cutoff := repo.now.Add(time.Millisecond)
	if _, err := svc.Post(ctx, storeID, "sess-1", enums.ChatSenderCustomer, "fresh"); err != nil {
		t.Fatalf("Post: %v", err)
	}

	deleted, err := svc.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("PurgeOlderThan: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}

	thread, err := svc.Messages(ctx, storeID, "sess-1", pagination.Params{})
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(thread.Messages) != 1 || thread.Messages[0].Body != "fresh" {
		t.Fatalf("expected only the fresh message, got %+v", thread.Messages)
	}
}
