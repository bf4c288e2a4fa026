// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"scribe-ai-api/internal/domain/repository"
	"scribe-ai-api/internal/interfaces/http/dto"
)

// UsageHandler 生成用量处理器（管理端）
type UsageHandler struct {
	usageRepo repository.UsageEventRepository
}

// NewUsageHandler 创建用量处理器
func NewUsageHandler(usageRepo repository.UsageEventRepository) *UsageHandler {
	return &UsageHandler{usageRepo: usageRepo}
}

// ListRecent 管理员：按时间倒序分页列出生成用量
// @Summary 生成用量列表
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.Response[[]dto.UsageEventResponse]
// @Router /api/v1/admin/usage [get]
func (h *UsageHandler) ListRecent(c *gin.Context) {
	page := dto.BindPage(c)

	result, err := h.usageRepo.ListRecent(c.Request.Context(), repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToUsageEventListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}
