package models

import "time"

// LoginAttempt 登录失败计数，窗口过期或登录成功后清零
type LoginAttempt struct {
	UserID    uint      `gorm:"primarykey" json:"user_id"`                 // 所属用户
	TryTime   int       `gorm:"not null;default:0" json:"try_time"`        // 当前窗口内的失败次数
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`    // 窗口计时起点（手动维护）
}

// TableName 指定表名
func (LoginAttempt) TableName() string {
	return "login_attempts"
}
