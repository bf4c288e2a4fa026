package usage

import (
	"context"
	"fmt"

	"scribe-ai-api/internal/domain/entity"
	"scribe-ai-api/internal/domain/repository"
	"scribe-ai-api/internal/infrastructure/messaging"
	"scribe-ai-api/pkg/logger"
)

// Writer usage-worker 侧的消息处理器：把流里的用量事件写入数据库
type Writer struct {
	usageRepo repository.UsageEventRepository
}

// NewWriter 创建用量落库处理器
func NewWriter(usageRepo repository.UsageEventRepository) *Writer {
	return &Writer{usageRepo: usageRepo}
}

// HandleMessage 处理一条生成用量消息。
// 返回错误时消息留在 pending 等待重试，超过重试上限进入死信队列。
func (w *Writer) HandleMessage(ctx context.Context, msg *messaging.Message) error {
	var payload messaging.GenerationUsageMessage
	if err := msg.UnmarshalPayload(&payload); err != nil {
		// 载荷损坏重试也无意义，记录后吞掉
		logger.Error(ctx, "unparseable generation usage payload", err, "message_id", msg.ID)
		return nil
	}
	if payload.UserID == "" {
		logger.Warn(ctx, "generation usage event without user_id dropped", "message_id", msg.ID)
		return nil
	}

	event := entity.NewGenerationUsageEvent(
		payload.UserID,
		payload.Source,
		payload.Model,
		payload.Mode,
		payload.PromptChars,
		payload.DurationMs,
		entity.GenerationStatus(payload.Status),
	)
	if !payload.OccurredAt.IsZero() {
		event.CreatedAt = payload.OccurredAt
	}

	if err := w.usageRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to persist usage event: %w", err)
	}
	return nil
}
