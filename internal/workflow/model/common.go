package model

// ProviderOverride 每请求的提供商覆盖参数，替代进程级环境变量改写。
// 仅在服务端配置允许时生效。
type ProviderOverride struct {
	BaseURL string
	APIKey  string
}
