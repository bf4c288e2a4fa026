// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"scribe-ai-api/internal/interfaces/http/middleware"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h RouterHandlers, rateLimit gin.HandlerFunc) {
	// 认证
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
	}

	// 文档库
	documents := v1.Group("/documents")
	{
		documents.GET("", h.Library.List)
		documents.POST("", h.Library.SaveAs)
		documents.GET("/:filename", h.Library.Get)
		documents.PUT("/:filename", h.Library.Save)
		documents.DELETE("/:filename", h.Library.Delete)
		documents.GET("/:filename/download", h.Library.Download)
		documents.POST("/:filename/snapshots", h.Library.CreateSnapshot)
		documents.GET("/:filename/snapshots", h.Library.ListSnapshots)
	}

	// 快照内容按 ID 读取
	v1.GET("/snapshots/:id", h.Library.GetSnapshot)

	// 编辑工作区
	workspaces := v1.Group("/workspaces")
	{
		workspaces.POST("", h.Workspace.Open)
		workspaces.GET("/:wid", h.Workspace.Get)
		workspaces.DELETE("/:wid", h.Workspace.Close)
		workspaces.POST("/:wid/save", h.Workspace.Save)
		workspaces.PUT("/:wid/title", h.Workspace.SetTitle)
		workspaces.PUT("/:wid/metadata", h.Workspace.SetMetadata)

		workspaces.POST("/:wid/sections", h.Workspace.AddSection)
		workspaces.PUT("/:wid/sections/order", h.Workspace.ReorderSections)
		workspaces.PUT("/:wid/sections/:sid", h.Workspace.UpdateSection)
		workspaces.DELETE("/:wid/sections/:sid", h.Workspace.DeleteSection)
		workspaces.POST("/:wid/sections/:sid/move", h.Workspace.MoveSection)
		workspaces.POST("/:wid/sections/:sid/generate", rateLimit, h.Workspace.GenerateSection)
		workspaces.GET("/:wid/sections/:sid/status", h.Workspace.SectionStatus)
	}

	// 无状态生成
	generate := v1.Group("/generate")
	generate.Use(rateLimit)
	{
		generate.POST("/text", h.Generate.GenerateText)
	}

	// 用户
	users := v1.Group("/users")
	{
		users.GET("/me", h.User.GetMe)
		users.PUT("/me", h.User.UpdateMe)
		users.PUT("/me/password", h.User.ChangePassword)
		users.GET("/me/preferences", h.User.GetPreferences)
		users.PUT("/me/preferences", h.User.PutPreferences)
	}

	// 管理端
	admin := v1.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", h.User.ListUsers)
		admin.GET("/usage", h.Usage.ListRecent)
	}
}
