package api

import (
	"github.com/learnchat-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RefreshTokenRequest 令牌刷新请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken 用过期访问令牌加刷新令牌换新令牌对
func (h *Handler) RefreshToken(c *gin.Context) {
	accessToken, err := response.BearerToken(c)
	if err != nil {
		response.Handle(c, err)
		return
	}
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	tokens, err := h.AuthService.RefreshTokens(accessToken, req.RefreshToken)
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.TokenRefresh(c, "Token Issued", tokens.AccessToken, tokens.RefreshToken)
}
