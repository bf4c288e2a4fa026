// Package wire 提供依赖注入配置
package wire

import (
	"net/http"

	"scribe-ai-api/internal/application/library"
	"scribe-ai-api/internal/application/writing"
	"scribe-ai-api/internal/config"
	"scribe-ai-api/internal/domain/service"
	"scribe-ai-api/internal/infrastructure/messaging"
	"scribe-ai-api/internal/infrastructure/persistence/postgres"
	"scribe-ai-api/internal/infrastructure/persistence/redis"
	"scribe-ai-api/internal/interfaces/http/middleware"
	"scribe-ai-api/internal/interfaces/http/router"
)

// App API 网关的顶层依赖容器
type App struct {
	Router *router.Router
	// Workspaces 在线工作区管理器，进程退出前 CloseAll
	Workspaces *writing.Manager
}

// Engine 返回底层 Gin Engine
func (a *App) Engine() http.Handler {
	return a.Router.Engine()
}

// DataLayer 数据层依赖容器
type DataLayer struct {
	// PostgreSQL
	PgClient       *postgres.Client
	TxManager      *postgres.TxManager
	UserRepo       *postgres.UserRepository
	DocumentRepo   *postgres.DocumentRepository
	SnapshotRepo   *postgres.SnapshotRepository
	PreferenceRepo *postgres.PreferenceRepository
	UsageEventRepo *postgres.UsageEventRepository

	// Redis
	RedisClient *redis.Client
	Cache       *redis.Cache
	RateLimiter *redis.RateLimiter

	// Messaging
	Producer *messaging.Producer
}

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap / adminctl）
type PostgresOnlyDataLayer struct {
	PgClient       *postgres.Client
	TxManager      *postgres.TxManager
	UserRepo       *postgres.UserRepository
	DocumentRepo   *postgres.DocumentRepository
	SnapshotRepo   *postgres.SnapshotRepository
	PreferenceRepo *postgres.PreferenceRepository
	UsageEventRepo *postgres.UsageEventRepository
}

// ProvidePostgresClient 提供数据库客户端（按 driver 选择 postgres/sqlite）
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideJWTConfig 提供 JWT 配置
func ProvideJWTConfig(cfg *config.Config) config.JWTConfig {
	return cfg.Security.JWT
}

// ProvideLibraryOptions 提供文档库配置
func ProvideLibraryOptions(cfg *config.Config) library.Options {
	opts := library.DefaultOptions()
	if cfg.Documents.SnapshotKeep > 0 {
		opts.SnapshotKeep = cfg.Documents.SnapshotKeep
	}
	if cfg.Documents.ListCacheTTL > 0 {
		opts.ListCacheTTL = cfg.Documents.ListCacheTTL
	}
	return opts
}

// ProvideWritingManager 提供工作区管理器
func ProvideWritingManager(store writing.DocumentStore, generator writing.Generator, recorder service.GenerationUsageRecorder, cfg *config.Config) *writing.Manager {
	opts := writing.DefaultOptions()
	if cfg.Generation.RequestTimeout > 0 {
		opts.RequestTimeout = cfg.Generation.RequestTimeout
	}
	if cfg.Generation.CancelWait > 0 {
		opts.CancelWait = cfg.Generation.CancelWait
	}
	opts.RequireMainPoint = cfg.Generation.RequireMainPoint
	return writing.NewManager(store, generator, recorder, opts, cfg.Generation.ContextMaxChars)
}

// ProvideAuthConfig 提供认证配置
func ProvideAuthConfig(cfg *config.Config) middleware.AuthConfig {
	return middleware.AuthConfig{
		Secret:    cfg.Security.JWT.Secret,
		Issuer:    cfg.Security.JWT.Issuer,
		SkipPaths: middleware.DefaultSkipPaths,
		Enabled:   true,
	}
}
