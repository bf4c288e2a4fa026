//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"scribe-ai-api/internal/application/account"
	"scribe-ai-api/internal/application/library"
	"scribe-ai-api/internal/application/usage"
	"scribe-ai-api/internal/application/writing"
	"scribe-ai-api/internal/config"
	"scribe-ai-api/internal/domain/repository"
	"scribe-ai-api/internal/domain/service"
	"scribe-ai-api/internal/infrastructure/llm"
	"scribe-ai-api/internal/infrastructure/persistence/postgres"
	"scribe-ai-api/internal/infrastructure/persistence/redis"
	"scribe-ai-api/internal/interfaces/http/handler"
	"scribe-ai-api/internal/interfaces/http/middleware"
	"scribe-ai-api/internal/interfaces/http/router"
	"scribe-ai-api/internal/workflow/chain"
	workflowport "scribe-ai-api/internal/workflow/port"
)

// InitializeDataLayer 初始化数据层
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		wire.Struct(new(DataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap / adminctl）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（路由器 + 工作区管理器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		ApplicationSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewDocumentRepository,
	postgres.NewSnapshotRepository,
	postgres.NewPreferenceRepository,
	postgres.NewUsageEventRepository,
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(library.ListCache), new(*redis.Cache)),
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
)

// ApplicationSet 应用服务提供者集合
var ApplicationSet = wire.NewSet(
	ProvideJWTConfig,
	account.NewService,
	ProvideLibraryOptions,
	library.NewService,
	usage.NewRecorder,
	wire.Bind(new(service.GenerationUsageRecorder), new(*usage.Recorder)),
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	chain.NewParagraphChain,
	wire.Bind(new(writing.Generator), new(*chain.ParagraphChain)),
	wire.Bind(new(writing.DocumentStore), new(*library.Service)),
	ProvideWritingManager,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideAuthConfig,
	handler.NewHealthHandler,
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewLibraryHandler,
	handler.NewWorkspaceHandler,
	handler.NewGenerateHandler,
	handler.NewUsageHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	// 接口绑定
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.DocumentRepository), new(*postgres.DocumentRepository)),
	wire.Bind(new(repository.SnapshotRepository), new(*postgres.SnapshotRepository)),
	wire.Bind(new(repository.PreferenceRepository), new(*postgres.PreferenceRepository)),
	wire.Bind(new(repository.UsageEventRepository), new(*postgres.UsageEventRepository)),
)
