package llm

import (
	"context"
	"fmt"
	"sync"

	"scribe-ai-api/internal/config"
	wfmodel "scribe-ai-api/internal/workflow/model"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// EinoFactory 管理多个 Eino ChatModel 客户端实例。
// 提供商配置来自应用配置，请求级覆盖通过显式参数传入，从不改写进程环境。
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get 获取指定名称的 ChatModel，如果未指定则返回默认客户端
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}

	chatModel, err := f.build(ctx, name, providerCfg)
	if err != nil {
		return nil, err
	}

	f.models[name] = chatModel
	return chatModel, nil
}

// GetWithOverride 按请求级覆盖参数构建 ChatModel。
// 覆盖实例不进缓存：携带调用方凭据的客户端只为本次请求存在。
func (f *EinoFactory) GetWithOverride(ctx context.Context, name string, override *wfmodel.ProviderOverride) (model.BaseChatModel, error) {
	if override == nil || (override.BaseURL == "" && override.APIKey == "") {
		return f.Get(ctx, name)
	}
	if !f.config.AllowClientOverrides {
		// 服务端未开放覆盖时静默忽略，等同无覆盖调用
		return f.Get(ctx, name)
	}

	if name == "" {
		name = f.config.DefaultProvider
	}
	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}
	if override.BaseURL != "" {
		providerCfg.BaseURL = override.BaseURL
	}
	if override.APIKey != "" {
		providerCfg.APIKey = override.APIKey
	}
	return f.build(ctx, name, providerCfg)
}

// Default 返回默认 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}

func (f *EinoFactory) build(ctx context.Context, name string, providerCfg config.ProviderConfig) (model.BaseChatModel, error) {
	// 使用 Eino 的 OpenAI 适配器
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      providerCfg.APIKey,
		BaseURL:     providerCfg.BaseURL,
		Model:       providerCfg.Model,
		MaxTokens:   &providerCfg.MaxTokens,
		Temperature: ptrFloat32(float32(providerCfg.Temperature)),
		Timeout:     providerCfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
	}
	return chatModel, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
