// Package postgres 提供 SQL 数据库访问层实现
package postgres

import (
	"context"
	"fmt"
	"time"

	"scribe-ai-api/internal/domain/entity"
	"scribe-ai-api/internal/domain/repository"
)

// UsageEventRepository 生成用量仓储实现
type UsageEventRepository struct {
	client *Client
}

// NewUsageEventRepository 创建生成用量仓储
func NewUsageEventRepository(client *Client) *UsageEventRepository {
	return &UsageEventRepository{client: client}
}

// Create 落库一条用量记录
func (r *UsageEventRepository) Create(ctx context.Context, event *entity.GenerationUsageEvent) error {
	ctx, span := tracer.Start(ctx, "postgres.UsageEventRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(event).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create usage event: %w", err)
	}
	return nil
}

// ListRecent 按时间倒序分页列出用量记录
func (r *UsageEventRepository) ListRecent(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationUsageEvent], error) {
	ctx, span := tracer.Start(ctx, "postgres.UsageEventRepository.ListRecent")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.GenerationUsageEvent{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count usage events: %w", err)
	}

	var events []*entity.GenerationUsageEvent
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&events).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list usage events: %w", err)
	}

	return repository.NewPagedResult(events, total, pagination), nil
}

// CountByUser 统计用户在时间窗口内的生成次数
func (r *UsageEventRepository) CountByUser(ctx context.Context, userID string, startInclusive, endExclusive time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.UsageEventRepository.CountByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.GenerationUsageEvent{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, startInclusive, endExclusive).
		Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count usage events: %w", err)
	}
	return count, nil
}
