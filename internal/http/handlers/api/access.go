package api

import (
	"github.com/learnchat-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login 邮箱密码登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	user, tokens, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.Success(c, "Login successfully", gin.H{
		"user":   user.Data(),
		"tokens": tokens,
	})
}

// SignupRequest 注册请求
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Signup 注册新账号（要求邮箱已验证）
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	user, tokens, err := h.AuthService.Signup(req.Email, req.Password)
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.Success(c, "Signup successfully.", gin.H{
		"user":   user.Data(),
		"tokens": tokens,
	})
}

// Logout 注销当前账号的全部会话
func (h *Handler) Logout(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Handle(c, response.ErrInternal("", nil))
		return
	}
	if err := h.AuthService.Logout(user.ID); err != nil {
		response.Handle(c, err)
		return
	}
	response.SuccessMsg(c, "Logout success")
}
