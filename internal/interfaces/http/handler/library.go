// Package handler 提供 HTTP 请求处理器
package handler

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"scribe-ai-api/internal/application/library"
	"scribe-ai-api/internal/domain/document"
	"scribe-ai-api/internal/interfaces/http/dto"
	pkgerrors "scribe-ai-api/pkg/errors"
)

// LibraryHandler 文档库处理器
type LibraryHandler struct {
	library *library.Service
}

// NewLibraryHandler 创建文档库处理器
func NewLibraryHandler(librarySvc *library.Service) *LibraryHandler {
	return &LibraryHandler{library: librarySvc}
}

// List 列出当前用户的全部文档
// @Summary 文档列表
// @Tags Documents
// @Produce json
// @Success 200 {object} dto.Response[dto.DocumentListResponse]
// @Router /api/v1/documents [get]
func (h *LibraryHandler) List(c *gin.Context) {
	infos, err := h.library.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToDocumentListResponse(infos))
}

// Get 加载一份文档
func (h *LibraryHandler) Get(c *gin.Context) {
	doc, err := h.library.Load(c.Request.Context(), currentUserID(c), dto.BindFilename(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, doc)
}

// Save 保存文档（同名覆盖）
func (h *LibraryHandler) Save(c *gin.Context) {
	var req dto.SaveDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	doc, err := parseDocumentBody(req.Document)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.library.Save(c.Request.Context(), currentUserID(c), dto.BindFilename(c), doc); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"message": "document saved"})
}

// SaveAs 另存为新文件名，重名冲突
func (h *LibraryHandler) SaveAs(c *gin.Context) {
	var req dto.SaveAsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	doc, err := parseDocumentBody(req.Document)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.library.SaveAs(c.Request.Context(), currentUserID(c), req.Filename, doc); err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, gin.H{"message": "document created"})
}

// Delete 删除文档及其快照
func (h *LibraryHandler) Delete(c *gin.Context) {
	if err := h.library.Delete(c.Request.Context(), currentUserID(c), dto.BindFilename(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"message": "document deleted"})
}

// Download 下载文档原始 JSON
func (h *LibraryHandler) Download(c *gin.Context) {
	filename := dto.BindFilename(c)
	raw, err := h.library.Download(c.Request.Context(), currentUserID(c), filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "application/json", raw)
}

// CreateSnapshot 创建文档快照
func (h *LibraryHandler) CreateSnapshot(c *gin.Context) {
	var req dto.CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	snapshot, err := h.library.CreateSnapshot(c.Request.Context(), currentUserID(c), dto.BindFilename(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.ToSnapshotResponse(snapshot))
}

// ListSnapshots 列出文档快照
func (h *LibraryHandler) ListSnapshots(c *gin.Context) {
	snapshots, err := h.library.ListSnapshots(c.Request.Context(), currentUserID(c), dto.BindFilename(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToSnapshotListResponse(snapshots))
}

// GetSnapshot 加载一条快照的文档内容
func (h *LibraryHandler) GetSnapshot(c *gin.Context) {
	doc, err := h.library.LoadSnapshot(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, doc)
}

// parseDocumentBody 解析请求携带的文档 JSON
func parseDocumentBody(raw json.RawMessage) (*document.Document, error) {
	var doc document.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, pkgerrors.ErrValidationFailed.WithDetail("invalid document payload: " + err.Error())
	}
	return &doc, nil
}
