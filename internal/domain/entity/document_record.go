// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentRecord 文档库存档行。Content 存放完整的文档 JSON（标题、段落、元数据），
// 持久层不解析其内部结构。
type DocumentRecord struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:uuid;index:idx_documents_user_filename,unique;not null"`
	Filename  string    `json:"filename" gorm:"type:varchar(255);index:idx_documents_user_filename,unique;not null"`
	Title     string    `json:"title" gorm:"type:varchar(512)"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (DocumentRecord) TableName() string {
	return "documents"
}

// NewDocumentRecord 创建文档存档行
func NewDocumentRecord(userID, filename, title, content string) *DocumentRecord {
	now := time.Now()
	return &DocumentRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Filename:  filename,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Size 存档内容的字节数，用于列表展示
func (d *DocumentRecord) Size() int {
	return len(d.Content)
}
