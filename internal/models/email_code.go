package models

import "time"

// EmailCode 邮箱验证码记录，注册或重置密码消费后删除
type EmailCode struct {
	ID          uint      `gorm:"primarykey" json:"id"`                   // 主键
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`      // 邮箱
	Code        string    `gorm:"not null" json:"-"`                      // 验证码（不返回给前端）
	RefreshTime int       `gorm:"not null;default:0" json:"refresh_time"` // 当前窗口内的重发次数
	TryTime     int       `gorm:"not null;default:0" json:"try_time"`     // 当前验证码的错误输入次数
	Verified    bool      `gorm:"not null;default:false" json:"verified"` // 是否已验证
	CreatedAt   time.Time `gorm:"autoCreateTime:false" json:"created_at"` // 验证码签发时间（手动维护）
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false" json:"updated_at"` // 最近状态变更时间（手动维护）
}

// TableName 指定表名
func (EmailCode) TableName() string {
	return "email_codes"
}
