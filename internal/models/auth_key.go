package models

import "time"

// AuthKey 每用户一条的签名密钥对，登录/刷新时整体轮换
type AuthKey struct {
	UserID       uint      `gorm:"primarykey" json:"user_id"`        // 所属用户
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // 冗余邮箱（按邮箱注销用）
	PrimaryKey   string    `gorm:"not null" json:"-"`                // 访问令牌签发密钥
	SecondaryKey string    `gorm:"not null" json:"-"`                // 刷新令牌签发密钥
	CreatedAt    time.Time `json:"-"`                                // 创建时间
	UpdatedAt    time.Time `json:"-"`                                // 更新时间
}

// TableName 指定表名
func (AuthKey) TableName() string {
	return "auth_keys"
}
