// Package postgres 提供 SQL 数据库访问层实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scribe-ai-api/internal/domain/entity"
)

// PreferenceRepository 用户偏好仓储实现
type PreferenceRepository struct {
	client *Client
}

// NewPreferenceRepository 创建用户偏好仓储
func NewPreferenceRepository(client *Client) *PreferenceRepository {
	return &PreferenceRepository{client: client}
}

// Get 获取用户偏好，不存在时返回 nil
func (r *PreferenceRepository) Get(ctx context.Context, userID string) (*entity.UserPreference, error) {
	ctx, span := tracer.Start(ctx, "postgres.PreferenceRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var pref entity.UserPreference
	if err := db.First(&pref, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	return &pref, nil
}

// Put 写入用户偏好（存在即覆盖）
func (r *PreferenceRepository) Put(ctx context.Context, pref *entity.UserPreference) error {
	ctx, span := tracer.Start(ctx, "postgres.PreferenceRepository.Put")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(pref).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to put preference: %w", err)
	}
	return nil
}
