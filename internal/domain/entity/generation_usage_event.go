// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
)

// GenerationStatus 生成结果状态
type GenerationStatus string

const (
	GenerationStatusSuccess   GenerationStatus = "success"
	GenerationStatusError     GenerationStatus = "error"
	GenerationStatusCancelled GenerationStatus = "cancelled"
)

// GenerationUsageEvent 一次段落生成的用量记录，由 usage-worker 从消息流落库
type GenerationUsageEvent struct {
	ID          string           `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string           `json:"user_id" gorm:"type:uuid;index;not null"`
	Source      string           `json:"source" gorm:"type:varchar(32);not null"`
	Model       string           `json:"model" gorm:"type:varchar(64);not null"`
	Mode        string           `json:"mode" gorm:"type:varchar(16);not null"`
	PromptChars int              `json:"prompt_chars" gorm:"not null;default:0"`
	DurationMs  int              `json:"duration_ms" gorm:"not null;default:0"`
	Status      GenerationStatus `json:"status" gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time        `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (GenerationUsageEvent) TableName() string {
	return "generation_usage_events"
}

// NewGenerationUsageEvent 创建用量记录
func NewGenerationUsageEvent(userID, source, model, mode string, promptChars, durationMs int, status GenerationStatus) *GenerationUsageEvent {
	return &GenerationUsageEvent{
		ID:          uuid.NewString(),
		UserID:      userID,
		Source:      source,
		Model:       model,
		Mode:        mode,
		PromptChars: promptChars,
		DurationMs:  durationMs,
		Status:      status,
		CreatedAt:   time.Now(),
	}
}
