package api

import (
	"github.com/learnchat-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// EmailRefreshRequest 验证码签发请求
type EmailRefreshRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RefreshEmailCode 签发或刷新邮箱验证码
func (h *Handler) RefreshEmailCode(c *gin.Context) {
	var req EmailRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	msg, err := h.EmailCodeService.Refresh(req.Email)
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.SuccessMsg(c, msg)
}

// EmailVerifyRequest 验证码校验请求
type EmailVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// VerifyEmailCode 校验邮箱验证码；输错返回逻辑失败而非请求失败
func (h *Handler) VerifyEmailCode(c *gin.Context) {
	var req EmailVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	msg, ok, err := h.EmailCodeService.Verify(req.Email, req.Code)
	if err != nil {
		response.Handle(c, err)
		return
	}
	if !ok {
		response.FailureMsg(c, msg)
		return
	}
	response.SuccessMsg(c, msg)
}
