package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"PostPilot/internal/handler"
	"PostPilot/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())
	//h.Use(middleware.CSRFMiddleware()) csrf 中间件，当前客户端全部走 Bearer token，暂不需要

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware()) // 认证接口限流
	{
		auth.POST("/exchange", handler.Exchange)
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	// 引导流程路由
	onboarding := v1.Group("/onboarding")

	// 导入回调由批次令牌鉴权，不走用户 JWT，要先于 AuthMiddleware 注册
	onboarding.POST("/posts/import-callback", handler.PostsImportCallback)

	onboarding.Use(middleware.AuthMiddleware())
	onboarding.Use(middleware.GeneralRateLimitMiddleware())
	{
		onboarding.GET("/state", handler.GetOnboardingState)
		onboarding.POST("/account-type", handler.SubmitAccountType)
		onboarding.POST("/style", handler.SubmitStyle)
		onboarding.POST("/cv", handler.UploadCV)
		onboarding.POST("/posts", handler.SetSamplePosts)
		onboarding.PUT("/posts/draft", handler.SavePostsDraft)
		onboarding.POST("/posts/import", handler.BeginPostsImport)
		onboarding.POST("/process", middleware.ProcessRateLimitMiddleware(), handler.ProcessProfile) // 画像合成限流
		onboarding.POST("/back", handler.StepBack)
		onboarding.PUT("/preferences", handler.UpdatePreferences)
		onboarding.POST("/complete", handler.CompleteOnboarding)
	}

	// 画像审阅路由
	profile := v1.Group("/profile")
	profile.Use(middleware.AuthMiddleware())
	{
		profile.GET("", handler.GetProfile)
		profile.PATCH("/fields", handler.UpdateProfileField)
		profile.POST("/fields/select-alternative", handler.SelectProfileAlternative)
		profile.POST("/lists", handler.ApplyProfileListOp)
	}
}
