package router

import (
	"fmt"
	"strings"

	"github.com/learnchat-next/internal/cache"
	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/http/handlers/api"
	"github.com/learnchat-next/internal/http/response"
	"github.com/learnchat-next/internal/logger"
	"github.com/learnchat-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := api.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "lc"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Rule.Rate.WindowSeconds,
		MaxRequests:   cfg.Rule.Rate.MaxRequests,
	}
	emailRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:email", redisPrefix),
		WindowSeconds: cfg.Rule.Rate.WindowSeconds,
		MaxRequests:   cfg.Rule.Rate.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（头像等上传内容）
	r.Static("/public", cfg.Upload.PublicDir)

	auth := AuthMiddleware(c.AuthService)
	admin := RequireAdmin(c.RoleRepo)

	apiV1 := r.Group("/api/v1")
	{
		// 准入接口
		apiV1.POST("/signup", h.Signup)
		apiV1.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), h.Login)
		apiV1.DELETE("/logout", auth, h.Logout)

		// 邮箱验证码
		email := apiV1.Group("/email")
		{
			email.POST("/refresh", RateLimitMiddleware(redisClient, emailRule, KeyByIPAndJSONField("email")), h.RefreshEmailCode)
			email.POST("/verify", h.VerifyEmailCode)
		}

		// 密码
		password := apiV1.Group("/password")
		{
			password.POST("/reset", h.ResetPassword)
			password.PUT("", auth, h.ChangePassword)
		}

		// 令牌刷新
		apiV1.POST("/token/refresh", h.RefreshToken)

		// 资料
		profile := apiV1.Group("/profile")
		{
			profile.GET("/id/:id", h.GetPublicProfile)
			profile.GET("/my", auth, h.MyProfile)
			profile.PUT("", auth, h.UpdateProfile)
			profile.PUT("/name", auth, h.UpdateName)
			profile.PUT("/avatar", auth, h.UpdateAvatar)
		}

		// 用户管理（管理员）
		users := apiV1.Group("/users", auth, admin)
		{
			users.GET("/search/name", h.SearchUsers)
			users.GET("/all", h.ListUsers)
			users.GET("/id/:id", h.GetUserInfo)
		}

		// 消息
		message := apiV1.Group("/message")
		{
			message.GET("/world/latest", h.LatestWorldMessages)
			message.GET("/world/after", h.WorldMessagesAfter)
			message.GET("/world/before", h.WorldMessagesBefore)
			message.POST("/world", auth, h.SendWorldMessage)
			message.GET("", auth, h.DrainPrivateMessages)
			message.POST("/id/:id", auth, h.SendPrivateMessage)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 未匹配路由统一 404
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not Found")
	})

	return r
}
