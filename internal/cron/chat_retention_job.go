package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/aurylabs/aury-backend/pkg/logger"
)

const defaultChatRetention = 30 * 24 * time.Hour

type chatPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ChatRetentionJobParams configure the chat retention sweep.
type ChatRetentionJobParams struct {
	Logger    *logger.Logger
	Chat      chatPurger
	Retention time.Duration
}

// NewChatRetentionJob builds the job that drops conversations past the
// retention window.
func NewChatRetentionJob(params ChatRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Chat == nil {
		return nil, fmt.Errorf("chat service required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultChatRetention
	}
	return &chatRetentionJob{
		logg:      params.Logger,
		chat:      params.Chat,
		retention: retention,
		now:       time.Now,
	}, nil
}

type chatRetentionJob struct {
	logg      *logger.Logger
	chat      chatPurger
	retention time.Duration
	now       func() time.Time
}

func (j *chatRetentionJob) Name() string { return "chat-retention" }

func (j *chatRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.chat.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("chat retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"retention":    j.retention.String(),
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "chat retention sweep complete")
	return nil
}
