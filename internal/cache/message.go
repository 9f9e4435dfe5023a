package cache

import "time"

// Message 聊天消息，私信与世界消息共用同一载荷
type Message struct {
	AuthorID     uint      `json:"author_id"`     // 发送者 ID
	AuthorName   string    `json:"author_name"`   // 发送者展示名
	AuthorAvatar string    `json:"author_avatar"` // 发送者头像
	IsAdmin      bool      `json:"is_admin"`      // 发送者是否为管理员
	Body         string    `json:"body"`          // 消息正文
	CreatedAt    time.Time `json:"created_at"`    // 发送时间
}
