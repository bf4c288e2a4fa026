// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"scribe-ai-api/internal/domain/entity"
)

// PreferenceRepository 用户偏好仓储接口
type PreferenceRepository interface {
	// Get 获取用户偏好，不存在时返回 nil
	Get(ctx context.Context, userID string) (*entity.UserPreference, error)

	// Put 写入用户偏好（存在即覆盖）
	Put(ctx context.Context, pref *entity.UserPreference) error
}
