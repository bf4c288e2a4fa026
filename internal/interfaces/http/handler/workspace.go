// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"scribe-ai-api/internal/application/writing"
	"scribe-ai-api/internal/interfaces/http/dto"
)

// WorkspaceHandler 编辑工作区处理器
type WorkspaceHandler struct {
	manager *writing.Manager
}

// NewWorkspaceHandler 创建工作区处理器
func NewWorkspaceHandler(manager *writing.Manager) *WorkspaceHandler {
	return &WorkspaceHandler{manager: manager}
}

// Open 打开工作区
// @Summary 打开编辑工作区
// @Description filename 为空时打开空白文档，否则从文档库加载
// @Tags Workspaces
// @Accept json
// @Produce json
// @Param body body dto.OpenWorkspaceRequest true "打开参数"
// @Success 201 {object} dto.Response[dto.WorkspaceResponse]
// @Router /api/v1/workspaces [post]
func (h *WorkspaceHandler) Open(c *gin.Context) {
	var req dto.OpenWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ws, err := h.manager.Open(c.Request.Context(), currentUserID(c), req.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWorkspace(c, ws, true)
}

// Get 获取工作区当前文档
func (h *WorkspaceHandler) Get(c *gin.Context) {
	ws, err := h.workspace(c)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWorkspace(c, ws, false)
}

// Close 关闭工作区，未保存的修改丢弃
func (h *WorkspaceHandler) Close(c *gin.Context) {
	if err := h.manager.Close(currentUserID(c), dto.BindWorkspaceID(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"message": "workspace closed"})
}

// Save 把工作区文档保存回文档库
func (h *WorkspaceHandler) Save(c *gin.Context) {
	var req dto.SaveWorkspaceRequest
	// 空请求体等同沿用原文件名保存
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	ws, err := h.workspace(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ws.Save(c.Request.Context(), req.Filename); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"message": "workspace saved", "filename": ws.Filename})
}

// SetTitle 设置文档标题
func (h *WorkspaceHandler) SetTitle(c *gin.Context) {
	var req dto.SetTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ws, err := h.workspace(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ws.SetTitle(req.Title)
	dto.Success(c, gin.H{"message": "title updated"})
}

// SetMetadata 设置文档级生成元数据
func (h *WorkspaceHandler) SetMetadata(c *gin.Context) {
	var req dto.SetMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ws, err := h.workspace(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ws.SetMetadata(req.Metadata)
	dto.Success(c, gin.H{"message": "metadata updated"})
}

// AddSection 插入段落；position 为 -1 或缺省时追加
func (h *WorkspaceHandler) AddSection(c *gin.Context) {
	var req dto.AddSectionRequest
	// 空请求体等同追加到末尾
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	ws, err := h.workspace(c)
	if err != nil {
		respondError(c, err)
		return
	}
	position := -1
	if req.Position != nil {
		position = *req.Position
	}
	section := ws.AddSection(position)
	dto.Created(c, dto.ToSectionResponse(section))
}

// UpdateSection 更新段落字段
func (h *WorkspaceHandler) UpdateSection(c *gin.Context) {
	var req dto.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ws, err := h.workspace(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ws.UpdateSection(dto.BindSectionID(c), writing.SectionUpdate{
		MainPoint: req.MainPoint,
		UserText:  req.UserText,
	}); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"message": "section updated"})
}

// DeleteSection 删除段落，先取消在途生成
func (h *WorkspaceHandler) DeleteSection(c *gin.Context) {
	ws, err := h.workspace(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ws.DeleteSection(dto.BindSectionID(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"message": "section deleted"})
}

// MoveSection 移动段落到指定位置
func (h *WorkspaceHandler) MoveSection(c *gin.Context) {
	var req dto.MoveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ws, err := h.workspace(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ws.MoveSection(dto.BindSectionID(c), req.Position); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"message": "section moved"})
}

// ReorderSections 按给定顺序重排全部段落
func (h *WorkspaceHandler) ReorderSections(c *gin.Context) {
	var req dto.ReorderSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ws, err := h.workspace(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ws.Reorder(req.SectionIDs); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"message": "sections reordered"})
}

// GenerateSection 为段落发起生成，立即返回旧文本，新文本靠轮询获取
// @Summary 段落生成
// @Tags Workspaces
// @Accept json
// @Produce json
// @Success 202 {object} dto.Response[dto.GenerateSectionResponse]
// @Router /api/v1/workspaces/{wid}/sections/{sid}/generate [post]
func (h *WorkspaceHandler) GenerateSection(c *gin.Context) {
	var req dto.GenerateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ws, err := h.workspace(c)
	if err != nil {
		respondError(c, err)
		return
	}

	params := writing.GenerationParams{
		MainPoint: req.MainPoint,
		UserText:  req.UserText,
		Mode:      req.Mode,
	}
	if req.Metadata != nil {
		params.Metadata = *req.Metadata
	}
	if req.Override != nil {
		params.Override = req.Override.ToOverride()
	}

	sectionID := dto.BindSectionID(c)
	previous, err := ws.RequestGeneration(sectionID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Accepted(c, &dto.GenerateSectionResponse{
		SectionID:     sectionID,
		GeneratedText: previous,
	})
}

// SectionStatus 轮询段落生成状态
func (h *WorkspaceHandler) SectionStatus(c *gin.Context) {
	ws, err := h.workspace(c)
	if err != nil {
		respondError(c, err)
		return
	}

	sectionID := dto.BindSectionID(c)
	status, err := ws.Poll(sectionID)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToSectionStatusResponse(sectionID, status))
}

func (h *WorkspaceHandler) workspace(c *gin.Context) (*writing.Workspace, error) {
	return h.manager.Get(currentUserID(c), dto.BindWorkspaceID(c))
}

func (h *WorkspaceHandler) respondWorkspace(c *gin.Context, ws *writing.Workspace, created bool) {
	doc, err := ws.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	resp := &dto.WorkspaceResponse{
		ID:       ws.ID,
		Filename: ws.Filename,
		Document: doc,
	}
	if created {
		dto.Created(c, resp)
		return
	}
	dto.Success(c, resp)
}
