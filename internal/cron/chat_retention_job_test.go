package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aurylabs/aury-backend/pkg/logger"
)

type stubChatPurger struct {
	cutoffs []time.Time
	deleted int64
	err     error
}

func (s *stubChatPurger) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.deleted, s.err
}

func TestChatRetentionJobUsesConfiguredWindow(t *testing.T) {
	purger := &stubChatPurger{deleted: 4}
	job, err := NewChatRetentionJob(ChatRetentionJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "cron-test"}),
		Chat:      purger,
		Retention: 720 * time.Hour,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	job.(*chatRetentionJob).now = func() time.Time { return fixed }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(purger.cutoffs) != 1 {
		t.Fatalf("expected one purge, got %d", len(purger.cutoffs))
	}
	want := fixed.Add(-720 * time.Hour)
	if !purger.cutoffs[0].Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, purger.cutoffs[0])
	}
}

func TestChatRetentionJobPropagatesError(t *testing.T) {
	purger := &stubChatPurger{err: errors.New("db offline")}
	job, err := NewChatRetentionJob(ChatRetentionJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Chat:   purger,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
}
