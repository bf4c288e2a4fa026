// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"scribe-ai-api/internal/domain/entity"
)

// UsageEventResponse 生成用量记录响应
type UsageEventResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Source      string    `json:"source"`
	Model       string    `json:"model"`
	Mode        string    `json:"mode"`
	PromptChars int       `json:"prompt_chars"`
	DurationMs  int       `json:"duration_ms"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToUsageEventResponse 实体转换为响应
func ToUsageEventResponse(e *entity.GenerationUsageEvent) *UsageEventResponse {
	if e == nil {
		return nil
	}
	return &UsageEventResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Source:      e.Source,
		Model:       e.Model,
		Mode:        e.Mode,
		PromptChars: e.PromptChars,
		DurationMs:  e.DurationMs,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

// ToUsageEventListResponse 实体列表转换为响应
func ToUsageEventListResponse(events []*entity.GenerationUsageEvent) []*UsageEventResponse {
	items := make([]*UsageEventResponse, len(events))
	for i, e := range events {
		items[i] = ToUsageEventResponse(e)
	}
	return items
}
