// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	wfmodel "scribe-ai-api/internal/workflow/model"
)

// ProviderOverrideRequest 请求级的提供商接入点覆盖。
// 仅在服务端配置允许时生效，否则静默忽略。
type ProviderOverrideRequest struct {
	BaseURL string `json:"base_url" binding:"omitempty,url"`
	APIKey  string `json:"api_key"`
}

// ToOverride 转换为工作流模型
func (r *ProviderOverrideRequest) ToOverride() *wfmodel.ProviderOverride {
	if r == nil {
		return nil
	}
	return &wfmodel.ProviderOverride{
		BaseURL: r.BaseURL,
		APIKey:  r.APIKey,
	}
}

// GenerateTextRequest 无状态生成请求：一次调用携带全部上下文，不触及任何文档状态
type GenerateTextRequest struct {
	UserText      string `json:"user_text"`
	Title         string `json:"title"`
	PrevParagraph string `json:"prev_paragraph"`
	NextParagraph string `json:"next_paragraph"`
	Mode          string `json:"generation_mode"`

	WritingStyle        string `json:"writing_style"`
	Tone                string `json:"tone"`
	TargetAudience      string `json:"target_audience"`
	BackgroundContext   string `json:"background_context"`
	GenerationDirective string `json:"generation_directive"`
	WordLimit           int    `json:"word_limit" binding:"omitempty,min=1,max=10000"`

	Source string `json:"source"`
	Model  string `json:"model"`

	Temperature *float32 `json:"temperature" binding:"omitempty,gte=0,lte=2"`
	MaxTokens   *int     `json:"max_tokens" binding:"omitempty,min=1"`

	Override *ProviderOverrideRequest `json:"provider_override"`
}

// GenerateTextResponse 无状态生成响应。
// 文本结果经过修整返回；结构化结果原样透传。
type GenerateTextResponse struct {
	GeneratedText string `json:"generated_text,omitempty"`
	Structured    any    `json:"structured,omitempty"`
	Mode          string `json:"generation_mode"`
}
