package service

import "context"

// GenerationUsageInput 表示一次段落生成的用量数据。
// 说明：该结构位于 domain/service，作为跨层的稳定契约（port），避免基础设施层依赖应用层实现。
type GenerationUsageInput struct {
	UserID string

	Source string
	Model  string
	Mode   string

	PromptChars int
	DurationMs  int
	Status      string
}

// GenerationUsageRecorder 负责记录生成用量（发布到消息流，由 worker 落库）。
// 约定：该接口的实现应尽量 best-effort，不应阻塞生成主流程。
type GenerationUsageRecorder interface {
	Record(ctx context.Context, in GenerationUsageInput) error
}
