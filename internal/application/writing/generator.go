package writing

import (
	"context"

	wfmodel "scribe-ai-api/internal/workflow/model"
)

// Generator 定义调度器对生成链的最小依赖（port），由 workflow/chain 实现
type Generator interface {
	Invoke(ctx context.Context, in *wfmodel.ParagraphGenerateInput) (*wfmodel.GenerationOutcome, error)
}
