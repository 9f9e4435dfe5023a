package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BearerToken 从 Authorization 头提取 Bearer 令牌
func BearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrAuthFailure("Invalid Authorization Header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", ErrAuthFailure("Invalid Authorization")
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", ErrAuthFailure("Invalid Authorization")
	}
	return token, nil
}

// Response 统一响应结构
type Response struct {
	StatusCode int         `json:"status_code"`    // 业务状态码
	Message    string      `json:"message"`        // 提示消息
	Data       interface{} `json:"data,omitempty"` // 数据内容
}

// Success 成功响应（带数据）
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		StatusCode: StatusSuccess,
		Message:    message,
		Data:       data,
	})
}

// SuccessMsg 成功响应（仅消息）
func SuccessMsg(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		StatusCode: StatusSuccess,
		Message:    message,
	})
}

// FailureMsg 逻辑失败响应：HTTP 200 但业务状态标记失败（验证码输错场景）
func FailureMsg(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		StatusCode: StatusFailure,
		Message:    message,
	})
}

// TokenRefresh 令牌刷新成功响应
func TokenRefresh(c *gin.Context, message, accessToken, refreshToken string) {
	c.JSON(http.StatusOK, Response{
		StatusCode: StatusSuccess,
		Message:    message,
		Data: gin.H{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
	})
}

// AuthFailure 401 响应
func AuthFailure(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{
		StatusCode: StatusFailure,
		Message:    message,
	})
}

// TokenExpired 401 响应，附带刷新令牌指令头
func TokenExpired(c *gin.Context, message string) {
	c.Header(InstructionHeader, InstructionRefreshToken)
	c.JSON(http.StatusUnauthorized, Response{
		StatusCode: StatusInvalidAccessToken,
		Message:    message,
	})
}

// Forbidden 403 响应
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Response{
		StatusCode: StatusFailure,
		Message:    message,
	})
}

// BadRequest 400 响应
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		StatusCode: StatusFailure,
		Message:    message,
	})
}

// NotFound 404 响应
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{
		StatusCode: StatusFailure,
		Message:    message,
	})
}

// TooManyRequests 429 响应
func TooManyRequests(c *gin.Context, message string) {
	c.JSON(http.StatusTooManyRequests, Response{
		StatusCode: StatusFailure,
		Message:    message,
	})
}

// Internal 500 响应
func Internal(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Response{
		StatusCode: StatusFailure,
		Message:    message,
	})
}
