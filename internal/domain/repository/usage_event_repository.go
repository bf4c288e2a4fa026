// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"scribe-ai-api/internal/domain/entity"
)

// UsageEventRepository 生成用量仓储接口
type UsageEventRepository interface {
	// Create 落库一条用量记录
	Create(ctx context.Context, event *entity.GenerationUsageEvent) error

	// ListRecent 按时间倒序分页列出用量记录
	ListRecent(ctx context.Context, pagination Pagination) (*PagedResult[*entity.GenerationUsageEvent], error)

	// CountByUser 统计用户在时间窗口内的生成次数
	CountByUser(ctx context.Context, userID string, startInclusive, endExclusive time.Time) (int64, error)
}
