package api

import (
	"time"

	"github.com/learnchat-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// MessageRequest 消息发送请求
type MessageRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

func parseDateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// LatestWorldMessages 最新一页世界消息
func (h *Handler) LatestWorldMessages(c *gin.Context) {
	msgs, err := h.MessageService.LatestWorld(c.Request.Context())
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.Success(c, "Latest world messages", msgs)
}

// WorldMessagesAfter 指定时刻之后的一页世界消息
func (h *Handler) WorldMessagesAfter(c *gin.Context) {
	at, ok := parseDateQuery(c)
	if !ok {
		response.BadRequest(c, "Bad Request")
		return
	}
	msgs, err := h.MessageService.WorldAfter(c.Request.Context(), at)
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.Success(c, "World messages", msgs)
}

// WorldMessagesBefore 指定时刻之前的一页世界消息
func (h *Handler) WorldMessagesBefore(c *gin.Context) {
	at, ok := parseDateQuery(c)
	if !ok {
		response.BadRequest(c, "Bad Request")
		return
	}
	msgs, err := h.MessageService.WorldBefore(c.Request.Context(), at)
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.Success(c, "World messages", msgs)
}

// SendWorldMessage 发送世界消息
func (h *Handler) SendWorldMessage(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Handle(c, response.ErrInternal("", nil))
		return
	}
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := h.MessageService.SendWorld(c.Request.Context(), user, req.Message); err != nil {
		response.Handle(c, err)
		return
	}
	response.SuccessMsg(c, "Sent to world messages!")
}

// DrainPrivateMessages 取走自己的全部私信积压
func (h *Handler) DrainPrivateMessages(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Handle(c, response.ErrInternal("", nil))
		return
	}
	msgs, err := h.MessageService.DrainPrivate(c.Request.Context(), user.ID)
	if err != nil {
		response.Handle(c, err)
		return
	}
	response.Success(c, "New messages", msgs)
}

// SendPrivateMessage 向指定用户发送私信
func (h *Handler) SendPrivateMessage(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Handle(c, response.ErrInternal("", nil))
		return
	}
	recipientID, ok := parseUserID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "Bad Request")
		return
	}
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := h.MessageService.SendPrivate(c.Request.Context(), user, recipientID, req.Message); err != nil {
		response.Handle(c, err)
		return
	}
	response.SuccessMsg(c, "Sent")
}
