// Package postgres 提供 SQL 数据库访问层实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"scribe-ai-api/internal/domain/entity"
)

// SnapshotRepository 文档快照仓储实现
type SnapshotRepository struct {
	client *Client
}

// NewSnapshotRepository 创建文档快照仓储
func NewSnapshotRepository(client *Client) *SnapshotRepository {
	return &SnapshotRepository{client: client}
}

// Create 创建快照
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *entity.DocumentSnapshot) error {
	ctx, span := tracer.Start(ctx, "postgres.SnapshotRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(snapshot).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取快照
func (r *SnapshotRepository) GetByID(ctx context.Context, id string) (*entity.DocumentSnapshot, error) {
	ctx, span := tracer.Start(ctx, "postgres.SnapshotRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var snapshot entity.DocumentSnapshot
	if err := db.First(&snapshot, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &snapshot, nil
}

// ListByDocument 按创建时间倒序列出文档的快照
func (r *SnapshotRepository) ListByDocument(ctx context.Context, documentID string) ([]*entity.DocumentSnapshot, error) {
	ctx, span := tracer.Start(ctx, "postgres.SnapshotRepository.ListByDocument")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var snapshots []*entity.DocumentSnapshot
	if err := db.Where("document_id = ?", documentID).
		Order("created_at DESC").
		Find(&snapshots).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// PruneToLatest 只保留文档最近的 keep 条快照，删除更早的行
func (r *SnapshotRepository) PruneToLatest(ctx context.Context, documentID string, keep int) error {
	ctx, span := tracer.Start(ctx, "postgres.SnapshotRepository.PruneToLatest")
	defer span.End()

	if keep <= 0 {
		return r.DeleteByDocument(ctx, documentID)
	}

	db := getDB(ctx, r.client.db)

	// 找出要保留的最新 keep 条的 ID，其余删除
	var keepIDs []string
	if err := db.Model(&entity.DocumentSnapshot{}).
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Limit(keep).
		Pluck("id", &keepIDs).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to select snapshots to keep: %w", err)
	}
	if len(keepIDs) < keep {
		return nil
	}

	if err := db.Where("document_id = ? AND id NOT IN ?", documentID, keepIDs).
		Delete(&entity.DocumentSnapshot{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}

// DeleteByDocument 删除文档的全部快照
func (r *SnapshotRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	ctx, span := tracer.Start(ctx, "postgres.SnapshotRepository.DeleteByDocument")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.DocumentSnapshot{}, "document_id = ?", documentID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete snapshots: %w", err)
	}
	return nil
}
