// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"scribe-ai-api/internal/application/account"
	"scribe-ai-api/internal/domain/repository"
	"scribe-ai-api/internal/interfaces/http/dto"
)

// UserHandler 用户处理器
type UserHandler struct {
	account  *account.Service
	userRepo repository.UserRepository
}

// NewUserHandler 创建用户处理器
func NewUserHandler(accountSvc *account.Service, userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{
		account:  accountSvc,
		userRepo: userRepo,
	}
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags Users
// @Produce json
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.account.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToUserResponse(user))
}

// UpdateMe 更新当前用户资料
func (h *UserHandler) UpdateMe(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.account.Profile(ctx, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	req.ApplyToUser(user)
	if err := h.account.UpdateProfile(ctx, user); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToUserResponse(user))
}

// ChangePassword 修改当前用户密码
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.account.ChangePassword(c.Request.Context(), currentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"message": "password changed"})
}

// GetPreferences 获取当前用户偏好
func (h *UserHandler) GetPreferences(c *gin.Context) {
	pref, err := h.account.GetPreferences(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, &dto.PreferencesResponse{
		Content:   pref.Content,
		UpdatedAt: pref.UpdatedAt,
	})
}

// PutPreferences 写入当前用户偏好
func (h *UserHandler) PutPreferences(c *gin.Context) {
	var req dto.PutPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.account.PutPreferences(c.Request.Context(), currentUserID(c), req.Content); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, gin.H{"message": "preferences saved"})
}

// ListUsers 管理员：分页列出用户
func (h *UserHandler) ListUsers(c *gin.Context) {
	page := dto.BindPage(c)

	result, err := h.userRepo.List(c.Request.Context(), repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToUserListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}
