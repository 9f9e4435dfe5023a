package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/constants"
	"github.com/learnchat-next/internal/http/response"
	"github.com/learnchat-next/internal/logger"
	"github.com/learnchat-next/internal/models"
	"github.com/learnchat-next/internal/repository"
	"github.com/learnchat-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// AuthMiddleware 访问令牌鉴权中间件：校验令牌、比对密钥对并装载用户
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := response.BearerToken(c)
		if err != nil {
			response.Handle(c, err)
			c.Abort()
			return
		}
		user, key, err := authService.Authenticate(token)
		if err != nil {
			response.Handle(c, err)
			c.Abort()
			return
		}
		c.Set(constants.ContextUserKey, user)
		c.Set(constants.ContextKeyKey, key)
		c.Set(constants.ContextAccessTokenKey, token)
		c.Next()
	}
}

// RequireRoles 角色授权中间件，要求用户持有任一指定角色
func RequireRoles(roleRepo repository.RoleRepository, codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || len(user.Roles) == 0 {
			response.Forbidden(c, "Permission denied")
			c.Abort()
			return
		}
		required, err := roleRepo.ListActiveByCodes(codes)
		if err != nil || len(required) == 0 {
			if err != nil {
				logger.Errorw("require_roles_lookup_failed", "codes", codes, "error", err)
			}
			response.Internal(c, "Internal error")
			c.Abort()
			return
		}
		if !hasAnyRole(user, required) {
			response.Forbidden(c, "Permission denied")
			c.Abort()
			return
		}
		c.Next()
	}
}

func hasAnyRole(user *models.User, required []models.Role) bool {
	for _, want := range required {
		for _, role := range user.Roles {
			if role.Status && role.ID == want.ID {
				return true
			}
		}
	}
	return false
}

// RequireAdmin 管理员授权中间件
func RequireAdmin(roleRepo repository.RoleRepository) gin.HandlerFunc {
	return RequireRoles(roleRepo, constants.RoleAdmin)
}

// CurrentUser 读取上下文中的认证用户
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(constants.ContextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentKey 读取上下文中的认证密钥对
func CurrentKey(c *gin.Context) *models.AuthKey {
	value, ok := c.Get(constants.ContextKeyKey)
	if !ok {
		return nil
	}
	key, ok := value.(*models.AuthKey)
	if !ok {
		return nil
	}
	return key
}

// CurrentAccessToken 读取上下文中的原始访问令牌
func CurrentAccessToken(c *gin.Context) string {
	value, ok := c.Get(constants.ContextAccessTokenKey)
	if !ok {
		return ""
	}
	token, ok := value.(string)
	if !ok {
		return ""
	}
	return token
}
