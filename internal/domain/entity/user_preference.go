// Package entity 定义领域实体
package entity

import "time"

// UserPreference 用户偏好设置，Content 为编辑器设置的 JSON 文本，服务端不解析
type UserPreference struct {
	UserID    string    `json:"user_id" gorm:"type:uuid;primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null;default:'{}'"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (UserPreference) TableName() string {
	return "user_preferences"
}
