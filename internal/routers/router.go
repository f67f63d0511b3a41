package routers

import (
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/internal/middleware"
	"github.com/NguyenHai-LETI/Sync-Note/internal/routers/api_router"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// newMethodLimiter /auth 接口按客户端 IP 限流，perSecond <= 0 时不限流
func newMethodLimiter(perSecond int64) limiter.Face {
	l := limiter.NewMethodLimiter()
	if perSecond <= 0 {
		return l
	}
	return l.AddBuckets(
		limiter.BucketRule{
			Key:          "/auth",
			FillInterval: time.Second,
			Capacity:     perSecond,
			Quantum:      perSecond,
		},
	)
}

// NewRouter 创建 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	// 获取配置
	cfg := appContainer.Config()
	lg := appContainer.Logger()

	r := gin.New()

	r.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
	r.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
	r.Use(middleware.Tracing(appContainer.Tracer))
	r.Use(middleware.RateLimiter(newMethodLimiter(cfg.App.AuthRateLimit)))
	r.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
	r.Use(middleware.Cors())
	r.Use(middleware.LangWithTranslator(uni))
	r.Use(middleware.Metrics(appContainer.HTTPMetrics))
	r.Use(middleware.AccessLogWithLogger(lg))
	r.Use(middleware.RecoveryWithLogger(lg))

	// 创建 Handlers（注入 App Container）
	userHandler := api_router.NewUserHandler(appContainer)
	categoryHandler := api_router.NewCategoryHandler(appContainer)
	noteHandler := api_router.NewNoteHandler(appContainer)
	noteItemHandler := api_router.NewNoteItemHandler(appContainer)
	syncHandler := api_router.NewSyncHandler(appContainer)
	healthHandler := api_router.NewHealthHandler(appContainer)

	r.GET("/health", healthHandler.Check)

	auth := r.Group("/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
		auth.POST("/refresh", userHandler.Refresh)
	}

	api := r.Group("/", middleware.UserAuthTokenWithManager(appContainer.TokenManager))
	{
		api.GET("/user/info", userHandler.UserInfo)
		api.POST("/user/change_password", userHandler.UserChangePassword)

		api.GET("/categories", categoryHandler.List)
		api.POST("/categories", categoryHandler.Create)
		api.PUT("/categories/:id", categoryHandler.Update)
		api.DELETE("/categories/:id", categoryHandler.Delete)

		api.GET("/categories/:id/notes", noteHandler.List)
		api.POST("/categories/:id/notes", noteHandler.Create)
		api.GET("/notes/:id", noteHandler.Get)
		api.PUT("/notes/:id", noteHandler.Update)
		api.DELETE("/notes/:id", noteHandler.Delete)

		api.GET("/notes/:id/items", noteItemHandler.List)
		api.POST("/notes/:id/items", noteItemHandler.Create)
		api.PUT("/items/:id", noteItemHandler.Update)
		api.PATCH("/items/:id", noteItemHandler.Patch)
		api.DELETE("/items/:id", noteItemHandler.Delete)

		api.GET("/sync", syncHandler.Sync)
	}

	r.NoRoute(middleware.NoFound())

	return r
}
