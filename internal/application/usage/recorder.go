// Package usage 实现生成用量链路：API 侧发布到消息流，worker 侧消费落库。
package usage

import (
	"context"
	"strings"
	"time"

	"scribe-ai-api/internal/domain/service"
	"scribe-ai-api/internal/infrastructure/messaging"
	"scribe-ai-api/pkg/logger"
)

// Recorder 把用量事件发布到 Redis Stream，由 usage-worker 异步落库。
// best-effort：发布失败只告警，不影响生成主流程。
type Recorder struct {
	producer *messaging.Producer
}

// NewRecorder 创建用量记录器
func NewRecorder(producer *messaging.Producer) *Recorder {
	return &Recorder{producer: producer}
}

// Record 实现 service.GenerationUsageRecorder
func (r *Recorder) Record(ctx context.Context, in service.GenerationUsageInput) error {
	if r == nil || r.producer == nil {
		return nil
	}
	if strings.TrimSpace(in.UserID) == "" {
		return nil
	}

	msg := &messaging.GenerationUsageMessage{
		UserID:      in.UserID,
		Source:      strings.TrimSpace(in.Source),
		Model:       strings.TrimSpace(in.Model),
		Mode:        strings.TrimSpace(in.Mode),
		PromptChars: in.PromptChars,
		DurationMs:  in.DurationMs,
		Status:      in.Status,
		OccurredAt:  time.Now(),
	}
	if _, err := r.producer.PublishGenerationUsage(ctx, msg); err != nil {
		logger.Warn(ctx, "failed to publish generation usage event", "error", err.Error())
		return err
	}
	return nil
}
