// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"scribe-ai-api/internal/domain/entity"
)

// SnapshotRepository 文档快照仓储接口
type SnapshotRepository interface {
	// Create 创建快照
	Create(ctx context.Context, snapshot *entity.DocumentSnapshot) error

	// GetByID 根据 ID 获取快照
	GetByID(ctx context.Context, id string) (*entity.DocumentSnapshot, error)

	// ListByDocument 按创建时间倒序列出文档的快照
	ListByDocument(ctx context.Context, documentID string) ([]*entity.DocumentSnapshot, error)

	// PruneToLatest 只保留文档最近的 keep 条快照，删除更早的行
	PruneToLatest(ctx context.Context, documentID string, keep int) error

	// DeleteByDocument 删除文档的全部快照
	DeleteByDocument(ctx context.Context, documentID string) error
}
