package response

import (
	"errors"

	"github.com/learnchat-next/internal/logger"

	"github.com/gin-gonic/gin"
)

// Kind 错误类别，决定边界处映射到的响应形态
type Kind int

const (
	KindInternal Kind = iota
	KindAuthFailure
	KindForbidden
	KindBadToken
	KindTokenExpired
	KindAccessToken
	KindBadRequest
	KindNotFound
)

// AppError 携带类别的业务错误，统一在边界映射为响应
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// ErrAuthFailure 凭证或会话无效
func ErrAuthFailure(message string) *AppError {
	if message == "" {
		message = "Invalid Credentials"
	}
	return newError(KindAuthFailure, message)
}

// ErrForbidden 锁定或权限不足
func ErrForbidden(message string) *AppError {
	if message == "" {
		message = "Permission denied"
	}
	return newError(KindForbidden, message)
}

// ErrBadToken 令牌签名或字段无效
func ErrBadToken(message string) *AppError {
	if message == "" {
		message = "Token is not valid"
	}
	return newError(KindBadToken, message)
}

// ErrTokenExpired 令牌过期，客户端应刷新
func ErrTokenExpired(message string) *AppError {
	if message == "" {
		message = "Token is expired"
	}
	return newError(KindTokenExpired, message)
}

// ErrAccessToken 访问令牌与密钥不匹配
func ErrAccessToken(message string) *AppError {
	if message == "" {
		message = "Invalid access token"
	}
	return newError(KindAccessToken, message)
}

// ErrBadRequest 参数或逻辑前置条件不满足
func ErrBadRequest(message string) *AppError {
	if message == "" {
		message = "Bad Request"
	}
	return newError(KindBadRequest, message)
}

// ErrNotFound 资源不存在
func ErrNotFound(message string) *AppError {
	if message == "" {
		message = "Not Found"
	}
	return newError(KindNotFound, message)
}

// ErrInternal 服务内部错误，release 模式下对外隐藏细节
func ErrInternal(message string, err error) *AppError {
	if message == "" {
		message = "Internal error"
	}
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// Handle 在边界将错误映射为响应；非 AppError 一律按内部错误处理
func Handle(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = ErrInternal("", err)
	}

	switch appErr.Kind {
	case KindAuthFailure, KindBadToken, KindAccessToken:
		AuthFailure(c, appErr.Message)
	case KindTokenExpired:
		TokenExpired(c, appErr.Message)
	case KindForbidden:
		Forbidden(c, appErr.Message)
	case KindBadRequest:
		BadRequest(c, appErr.Message)
	case KindNotFound:
		NotFound(c, appErr.Message)
	default:
		logger.Errorw("internal_error",
			"error", appErr.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"client_ip", c.ClientIP(),
		)
		message := appErr.Message
		if gin.Mode() == gin.ReleaseMode {
			message = "Something wrong happened."
		}
		Internal(c, message)
	}
}
