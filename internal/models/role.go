package models

import "time"

// Role 角色表，代码取值 LEARNER / ADMIN
type Role struct {
	ID        uint      `gorm:"primarykey" json:"id"`            // 主键
	Code      string    `gorm:"uniqueIndex;not null" json:"code"` // 角色代码
	Status    bool      `gorm:"not null;default:true" json:"status"` // 是否生效
	CreatedAt time.Time `json:"-"`                               // 创建时间
	UpdatedAt time.Time `json:"-"`                               // 更新时间
}

// TableName 指定表名
func (Role) TableName() string {
	return "roles"
}
