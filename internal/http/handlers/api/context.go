package api

import (
	"github.com/learnchat-next/internal/constants"
	"github.com/learnchat-next/internal/models"

	"github.com/gin-gonic/gin"
)

// currentUser 读取鉴权中间件装载的用户
func currentUser(c *gin.Context) *models.User {
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
