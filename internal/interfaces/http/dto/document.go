// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"encoding/json"
	"time"

	"scribe-ai-api/internal/application/library"
	"scribe-ai-api/internal/domain/entity"
)

// SaveDocumentRequest 保存文档请求。Document 为完整的文档 JSON。
type SaveDocumentRequest struct {
	Document json.RawMessage `json:"document" binding:"required"`
}

// SaveAsRequest 另存为请求
type SaveAsRequest struct {
	Filename string          `json:"filename" binding:"required"`
	Document json.RawMessage `json:"document" binding:"required"`
}

// DocumentInfoResponse 文档列表项
type DocumentInfoResponse struct {
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentListResponse 文档列表响应
type DocumentListResponse struct {
	Items []*DocumentInfoResponse `json:"items"`
}

// CreateSnapshotRequest 创建快照请求，名称可空（默认时间戳加文件名）
type CreateSnapshotRequest struct {
	Name string `json:"name" binding:"omitempty,max=300"`
}

// SnapshotResponse 快照响应（不含正文）
type SnapshotResponse struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// SnapshotListResponse 快照列表响应
type SnapshotListResponse struct {
	Items []*SnapshotResponse `json:"items"`
}

// ToDocumentListResponse 列表项转换为响应
func ToDocumentListResponse(infos []library.DocumentInfo) *DocumentListResponse {
	items := make([]*DocumentInfoResponse, len(infos))
	for i := range infos {
		info := infos[i]
		items[i] = &DocumentInfoResponse{
			Filename:  info.Filename,
			Title:     info.Title,
			Size:      info.Size,
			CreatedAt: info.CreatedAt,
			UpdatedAt: info.UpdatedAt,
		}
	}
	return &DocumentListResponse{Items: items}
}

// ToSnapshotResponse 实体转换为响应
func ToSnapshotResponse(s *entity.DocumentSnapshot) *SnapshotResponse {
	if s == nil {
		return nil
	}
	return &SnapshotResponse{
		ID:         s.ID,
		DocumentID: s.DocumentID,
		Name:       s.Name,
		CreatedAt:  s.CreatedAt,
	}
}

// ToSnapshotListResponse 实体列表转换为响应
func ToSnapshotListResponse(snapshots []*entity.DocumentSnapshot) *SnapshotListResponse {
	items := make([]*SnapshotResponse, len(snapshots))
	for i, s := range snapshots {
		items[i] = ToSnapshotResponse(s)
	}
	return &SnapshotListResponse{Items: items}
}
