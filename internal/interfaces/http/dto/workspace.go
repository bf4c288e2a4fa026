// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"scribe-ai-api/internal/application/writing"
	"scribe-ai-api/internal/domain/document"
)

// OpenWorkspaceRequest 打开工作区请求。filename 为空时打开空白文档。
type OpenWorkspaceRequest struct {
	Filename string `json:"filename" binding:"omitempty,max=255"`
}

// WorkspaceResponse 工作区响应
type WorkspaceResponse struct {
	ID       string             `json:"id"`
	Filename string             `json:"filename,omitempty"`
	Document *document.Document `json:"document"`
}

// SaveWorkspaceRequest 保存工作区请求。filename 为空时沿用打开时的文件名。
type SaveWorkspaceRequest struct {
	Filename string `json:"filename" binding:"omitempty,max=255"`
}

// AddSectionRequest 新建段落请求。position 为 -1 或缺省时追加到末尾。
type AddSectionRequest struct {
	Position *int `json:"position"`
}

// UpdateSectionRequest 更新段落请求，字段为 nil 时不变
type UpdateSectionRequest struct {
	MainPoint *string `json:"main_point"`
	UserText  *string `json:"user_text"`
}

// MoveSectionRequest 移动段落请求
type MoveSectionRequest struct {
	Position int `json:"position"`
}

// ReorderSectionsRequest 重排段落请求，必须是现有段落 ID 的一个排列
type ReorderSectionsRequest struct {
	SectionIDs []string `json:"section_ids" binding:"required"`
}

// SetTitleRequest 设置标题请求
type SetTitleRequest struct {
	Title string `json:"title" binding:"max=512"`
}

// SetMetadataRequest 设置文档级生成元数据请求
type SetMetadataRequest struct {
	Metadata document.Metadata `json:"metadata" binding:"required"`
}

// SectionResponse 段落响应
type SectionResponse struct {
	ID            string `json:"id"`
	MainPoint     string `json:"main_point"`
	UserText      string `json:"user_text"`
	GeneratedText string `json:"generated_text"`
	Order         int    `json:"order"`
}

// GenerateSectionRequest 段落生成请求
type GenerateSectionRequest struct {
	MainPoint string `json:"main_point"`
	UserText  string `json:"user_text"`
	Mode      string `json:"generation_mode"`

	// Metadata 为空时回退到文档级元数据
	Metadata *document.Metadata `json:"metadata"`

	Override *ProviderOverrideRequest `json:"provider_override"`
}

// GenerateSectionResponse 生成请求的即时响应：返回旧文本，新值靠轮询获取
type GenerateSectionResponse struct {
	SectionID     string `json:"section_id"`
	GeneratedText string `json:"generated_text"`
}

// SectionStatusResponse 段落生成状态响应
type SectionStatusResponse struct {
	SectionID     string `json:"section_id"`
	GeneratedText string `json:"generated_text"`
	IsGenerating  bool   `json:"is_generating"`
	LastError     string `json:"last_error,omitempty"`
	Structured    any    `json:"structured,omitempty"`
}

// ToSectionResponse 段落转换为响应
func ToSectionResponse(s *document.Section) *SectionResponse {
	if s == nil {
		return nil
	}
	return &SectionResponse{
		ID:            s.ID,
		MainPoint:     s.MainPoint,
		UserText:      s.UserText,
		GeneratedText: s.GeneratedText,
		Order:         s.Order,
	}
}

// ToSectionStatusResponse 调度状态转换为响应
func ToSectionStatusResponse(sectionID string, st writing.SectionStatus) *SectionStatusResponse {
	return &SectionStatusResponse{
		SectionID:     sectionID,
		GeneratedText: st.GeneratedText,
		IsGenerating:  st.IsGenerating,
		LastError:     st.LastError,
		Structured:    st.Structured,
	}
}
