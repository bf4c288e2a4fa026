// Package messaging 提供基于 Redis Streams 的消息队列实现
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("messaging")

// MsgTypeGenerationUsage 生成用量消息类型
const MsgTypeGenerationUsage = "generation_usage"

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishGenerationUsage 发布一条生成用量事件
func (p *Producer) PublishGenerationUsage(ctx context.Context, usage *GenerationUsageMessage) (string, error) {
	msg, err := NewMessage(uuid.NewString(), MsgTypeGenerationUsage, usage.UserID, usage)
	if err != nil {
		return "", err
	}

	msg.SetMetadata("mode", usage.Mode)
	msg.SetMetadata("status", usage.Status)
	return p.Publish(ctx, StreamGenerationUsage, msg)
}

// GenerationUsageMessage 生成用量消息
type GenerationUsageMessage struct {
	UserID      string    `json:"user_id"`
	Source      string    `json:"source"`
	Model       string    `json:"model"`
	Mode        string    `json:"mode"`
	PromptChars int       `json:"prompt_chars"`
	DurationMs  int       `json:"duration_ms"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
