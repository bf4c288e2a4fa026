// Package entity 定义领域实体
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentSnapshot 文档历史快照。归属关系通过父文档传递：校验快照访问权限时
// 先按 DocumentID 取父文档，再比对其 UserID。
type DocumentSnapshot struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	DocumentID string    `json:"document_id" gorm:"type:uuid;index;not null"`
	Name       string    `json:"name" gorm:"type:varchar(300);not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (DocumentSnapshot) TableName() string {
	return "document_snapshots"
}

// NewDocumentSnapshot 创建快照，名称为空时按时间戳加文件名生成
func NewDocumentSnapshot(documentID, name, filename, content string) *DocumentSnapshot {
	now := time.Now()
	if name == "" {
		name = fmt.Sprintf("%s_%s", now.Format("20060102_150405"), filename)
	}
	return &DocumentSnapshot{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Name:       name,
		Content:    content,
		CreatedAt:  now,
	}
}
