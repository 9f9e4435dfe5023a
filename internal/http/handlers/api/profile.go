package api

import (
	"strconv"

	"github.com/learnchat-next/internal/http/response"
	"github.com/learnchat-next/internal/service"

	"github.com/gin-gonic/gin"
)

func parseUserID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// GetPublicProfile 查看任意用户的公开资料
func (h *Handler) GetPublicProfile(c *gin.Context) {
	id, ok := parseUserID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "Bad Request")
		return
	}
	profile, err := h.UserService.GetPublicProfile(id)
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.Success(c, "User profile", profile)
}

// MyProfile 查看自己的完整资料
func (h *Handler) MyProfile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Handle(c, response.ErrInternal("", nil))
		return
	}
	response.Success(c, "My profile", user)
}

// UpdateProfile 更新公开资料字段
func (h *Handler) UpdateProfile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Handle(c, response.ErrInternal("", nil))
		return
	}
	var req service.ProfileUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	updated, err := h.UserService.UpdateProfile(user.ID, req)
	if err != nil {
		response.Handle(c, err)
		return
	}
	updated.Roles = user.Roles
	response.Success(c, "Profile updated", updated)
}

// NameUpdateRequest 改名请求
type NameUpdateRequest struct {
	Name string `json:"name" binding:"required,min=4,max=20"`
}

// UpdateName 更新展示名（受冷却期约束）
func (h *Handler) UpdateName(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Handle(c, response.ErrInternal("", nil))
		return
	}
	var req NameUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	updated, err := h.UserService.UpdateName(user, req.Name)
	if err != nil {
		response.Handle(c, err)
		return
	}
	updated.Roles = user.Roles
	response.Success(c, "Name updated", updated)
}

// UpdateAvatar 上传并更新头像
func (h *Handler) UpdateAvatar(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Handle(c, response.ErrInternal("", nil))
		return
	}
	file, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, "Please upload an image")
		return
	}
	filename, err := h.UploadService.SaveAvatar(user.ID, file)
	if err != nil {
		response.Handle(c, err)
		return
	}
	updated, err := h.UserService.UpdateAvatar(user.ID, filename)
	if err != nil {
		response.Handle(c, err)
		return
	}
	updated.Roles = user.Roles
	response.Success(c, "Avatar updated", updated)
}
