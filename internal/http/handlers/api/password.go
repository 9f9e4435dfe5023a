package api

import (
	"github.com/learnchat-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PasswordResetRequest 重置密码请求
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPassword 重置密码为随机密码并邮件投递（要求邮箱已验证）
func (h *Handler) ResetPassword(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := h.AuthService.ResetPassword(req.Email); err != nil {
		response.Handle(c, err)
		return
	}
	response.SuccessMsg(c, "Please check your email for new password")
}

// PasswordUpdateRequest 修改密码请求
type PasswordUpdateRequest struct {
	Password    string `json:"password" binding:"required,min=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword 凭旧密码更换新密码
func (h *Handler) ChangePassword(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Handle(c, response.ErrInternal("", nil))
		return
	}
	var req PasswordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := h.AuthService.ChangePassword(user, req.Password, req.NewPassword); err != nil {
		response.Handle(c, err)
		return
	}
	response.SuccessMsg(c, "Password updated")
}
