// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"scribe-ai-api/internal/domain/entity"
)

// DocumentRepository 文档库仓储接口
type DocumentRepository interface {
	// Create 创建文档行
	Create(ctx context.Context, doc *entity.DocumentRecord) error

	// GetByID 根据 ID 获取文档
	GetByID(ctx context.Context, id string) (*entity.DocumentRecord, error)

	// GetByUserAndFilename 按用户和文件名获取文档
	GetByUserAndFilename(ctx context.Context, userID, filename string) (*entity.DocumentRecord, error)

	// Update 更新文档内容
	Update(ctx context.Context, doc *entity.DocumentRecord) error

	// Delete 删除文档
	Delete(ctx context.Context, id string) error

	// ListByUser 按最近更新排序列出用户的全部文档
	ListByUser(ctx context.Context, userID string) ([]*entity.DocumentRecord, error)
}
