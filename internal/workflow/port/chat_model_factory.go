package port

import (
	"context"

	"github.com/cloudwego/eino/components/model"

	wfmodel "scribe-ai-api/internal/workflow/model"
)

// ChatModelFactory 定义工作流层对 LLM ChatModel 的最小依赖（port）。
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)

	// GetWithOverride 按请求级覆盖参数构建模型；override 为 nil 时等同 Get。
	// 覆盖是否被允许由实现方依据服务端配置裁决。
	GetWithOverride(ctx context.Context, name string, override *wfmodel.ProviderOverride) (model.BaseChatModel, error)
}
