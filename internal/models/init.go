package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/learnchat-next/internal/constants"
	"github.com/learnchat-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultRoles 初始化角色记录，缺失的角色按生效状态补齐
func InitDefaultRoles() error {
	for _, code := range []string{constants.RoleLearner, constants.RoleAdmin} {
		var count int64
		if err := DB.Model(&Role{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&Role{Code: code, Status: true}).Error; err != nil {
			return err
		}
		logger.Infow("default_role_created", "code", code)
	}
	return nil
}

// InitDefaultAdmin 初始化默认管理员账号（仅当不存在任何管理员时）
func InitDefaultAdmin(email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var admin Role
	if err := DB.Where("code = ?", constants.RoleAdmin).First(&admin).Error; err != nil {
		return err
	}

	var count int64
	if err := DB.Model(&User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role_id = ?", admin.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := User{
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		Name:         fmt.Sprintf("admin%d", time.Now().UnixMilli()),
		Roles:        []Role{admin},
		Status:       true,
	}
	if err := DB.Create(&user).Error; err != nil {
		return err
	}
	logger.Warnw("default_admin_created", "email", user.Email, "password_hidden", true)
	return nil
}
