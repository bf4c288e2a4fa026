// Package postgres 提供 SQL 数据库访问层实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"scribe-ai-api/internal/domain/entity"
)

// DocumentRepository 文档库仓储实现
type DocumentRepository struct {
	client *Client
}

// NewDocumentRepository 创建文档库仓储
func NewDocumentRepository(client *Client) *DocumentRepository {
	return &DocumentRepository{client: client}
}

// Create 创建文档行
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.DocumentRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(doc).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取文档
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*entity.DocumentRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var doc entity.DocumentRecord
	if err := db.First(&doc, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// GetByUserAndFilename 按用户和文件名获取文档
func (r *DocumentRepository) GetByUserAndFilename(ctx context.Context, userID, filename string) (*entity.DocumentRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.GetByUserAndFilename")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var doc entity.DocumentRecord
	if err := db.First(&doc, "user_id = ? AND filename = ?", userID, filename).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get document by filename: %w", err)
	}
	return &doc, nil
}

// Update 更新文档内容
func (r *DocumentRepository) Update(ctx context.Context, doc *entity.DocumentRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(doc).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

// Delete 删除文档
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.DocumentRecord{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// ListByUser 按最近更新排序列出用户的全部文档
func (r *DocumentRepository) ListByUser(ctx context.Context, userID string) ([]*entity.DocumentRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var docs []*entity.DocumentRecord
	if err := db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&docs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
