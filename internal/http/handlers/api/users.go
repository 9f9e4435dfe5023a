package api

import (
	"strconv"
	"strings"

	"github.com/learnchat-next/internal/http/response"
	"github.com/learnchat-next/internal/models"

	"github.com/gin-gonic/gin"
)

// SearchUsers 按展示名模糊搜索用户（管理员）
func (h *Handler) SearchUsers(c *gin.Context) {
	like := strings.TrimSpace(c.Query("like"))
	if like == "" {
		response.BadRequest(c, "Bad Request")
		return
	}
	users, err := h.UserService.SearchNameLike(like)
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.Success(c, "User info list", toUserDataList(users))
}

// ListUsers 分页列出用户（管理员）
func (h *Handler) ListUsers(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		response.BadRequest(c, "Bad Request")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		response.BadRequest(c, "Bad Request")
		return
	}
	users, err := h.UserService.ListUsers(page, limit)
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.Success(c, "User info list", toUserDataList(users))
}

// GetUserInfo 查看指定用户的账号信息（管理员）
func (h *Handler) GetUserInfo(c *gin.Context) {
	id, ok := parseUserID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "Bad Request")
		return
	}
	user, err := h.UserService.GetPrivateInfo(id)
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.Success(c, "User info", user.Data())
}

func toUserDataList(users []models.User) []models.UserData {
	list := make([]models.UserData, 0, len(users))
	for i := range users {
		list = append(list, users[i].Data())
	}
	return list
}
