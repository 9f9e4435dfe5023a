package models

import (
	"time"

	"github.com/learnchat-next/internal/constants"
)

// User 用户表
type User struct {
	ID            uint       `gorm:"primarykey" json:"id"`                  // 主键
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`     // 邮箱
	PasswordHash  string     `gorm:"not null" json:"-"`                     // 密码哈希（不返回给前端）
	Name          string     `gorm:"uniqueIndex;size:20" json:"name"`       // 展示名（唯一）
	NameUpdatedAt *time.Time `json:"-"`                                     // 最近改名时间
	Avatar        string     `gorm:"default:''" json:"avatar"`              // 头像文件名
	Gender        *bool      `json:"gender,omitempty"`                      // 性别
	Birthday      *time.Time `json:"birthday,omitempty"`                    // 生日
	City          string     `gorm:"size:30" json:"city,omitempty"`         // 城市
	Intro         string     `gorm:"size:2000" json:"intro,omitempty"`      // 简介
	Roles         []Role     `gorm:"many2many:user_roles" json:"roles"`     // 角色引用
	Status        bool       `gorm:"not null;default:true" json:"-"`        // 账号状态
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`               // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                            // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 判断用户是否持有有效的管理员角色
func (u *User) IsAdmin() bool {
	for _, role := range u.Roles {
		if role.Status && role.Code == constants.RoleAdmin {
			return true
		}
	}
	return false
}

// UserData 登录/注册返回的账号视图
type UserData struct {
	ID       uint       `json:"id"`
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	Avatar   string     `json:"avatar"`
	Roles    []Role     `json:"roles"`
	Gender   *bool      `json:"gender,omitempty"`
	Birthday *time.Time `json:"birthday,omitempty"`
	City     string     `json:"city,omitempty"`
	Intro    string     `json:"intro,omitempty"`
}

// Data 提取账号视图
func (u *User) Data() UserData {
	return UserData{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Avatar:   u.Avatar,
		Roles:    u.Roles,
		Gender:   u.Gender,
		Birthday: u.Birthday,
		City:     u.City,
		Intro:    u.Intro,
	}
}

// PublicProfile 公开资料视图
type PublicProfile struct {
	ID       uint       `json:"id"`
	Name     string     `json:"name"`
	Avatar   string     `json:"avatar"`
	Gender   *bool      `json:"gender,omitempty"`
	Birthday *time.Time `json:"birthday,omitempty"`
	City     string     `json:"city,omitempty"`
	Intro    string     `json:"intro,omitempty"`
}

// Public 提取公开资料
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Name:     u.Name,
		Avatar:   u.Avatar,
		Gender:   u.Gender,
		Birthday: u.Birthday,
		City:     u.City,
		Intro:    u.Intro,
	}
}
