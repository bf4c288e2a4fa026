// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"scribe-ai-api/internal/domain/entity"
)

// UserResponse 用户响应
type UserResponse struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Role        entity.UserRole `json:"role"`
	IsActive    bool            `json:"is_active"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UserListResponse 用户列表响应
type UserListResponse struct {
	Items []*UserResponse `json:"items"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name *string `json:"name" binding:"omitempty,max=128"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// PreferencesResponse 用户偏好响应。Content 为前端自定义的 JSON 文本。
type PreferencesResponse struct {
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PutPreferencesRequest 写入用户偏好请求
type PutPreferencesRequest struct {
	Content string `json:"content" binding:"required"`
}

// ToUserResponse 实体转换为响应
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserListResponse 实体列表转换为响应
func ToUserListResponse(users []*entity.User) *UserListResponse {
	items := make([]*UserResponse, len(users))
	for i, u := range users {
		items[i] = ToUserResponse(u)
	}
	return &UserListResponse{Items: items}
}

// ApplyToUser 更新实体
func (r *UpdateUserRequest) ApplyToUser(u *entity.User) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	u.UpdatedAt = time.Now()
}
