package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"scribe-ai-api/internal/config"
	"scribe-ai-api/internal/interfaces/http/dto"
	pkgerrors "scribe-ai-api/pkg/errors"
)

// respondError 把应用错误映射为统一的 HTTP 错误响应
func respondError(c *gin.Context, err error) {
	appErr := pkgerrors.AsAppError(err)
	dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
		ErrorCode: string(appErr.Code),
		Details:   appErr.Detail,
	})
}

// resolveProviderModel 解析 LLM Provider 和 Model
func resolveProviderModel(cfg *config.Config, provider, model string) (string, string, error) {
	if cfg == nil {
		return "", "", fmt.Errorf("server config not configured")
	}

	p := strings.TrimSpace(provider)
	if p == "" {
		p = strings.TrimSpace(cfg.LLM.DefaultProvider)
	}
	if p == "" {
		return "", "", fmt.Errorf("llm provider not specified")
	}
	if len(p) > 32 {
		return "", "", fmt.Errorf("llm provider too long")
	}

	providerCfg, ok := cfg.LLM.Providers[p]
	if !ok {
		return "", "", fmt.Errorf("llm provider not found: %s", p)
	}

	m := strings.TrimSpace(model)
	if m == "" {
		m = strings.TrimSpace(providerCfg.Model)
	}
	if len(m) > 64 {
		return "", "", fmt.Errorf("llm model too long")
	}
	return p, m, nil
}

// currentUserID 从认证上下文取当前用户 ID，缺失时返回空串
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
