package repository

import (
	"errors"

	"github.com/learnchat-next/internal/models"

	"gorm.io/gorm"
)

// RoleRepository 角色数据访问接口
type RoleRepository interface {
	GetByCode(code string) (*models.Role, error)
	ListActiveByCodes(codes []string) ([]models.Role, error)
}

// GormRoleRepository GORM 实现
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository 创建角色仓库
func NewRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// GetByCode 根据代码获取生效角色
func (r *GormRoleRepository) GetByCode(code string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("code = ? AND status = ?", code, true).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// ListActiveByCodes 批量获取生效角色
func (r *GormRoleRepository) ListActiveByCodes(codes []string) ([]models.Role, error) {
	if len(codes) == 0 {
		return []models.Role{}, nil
	}
	var roles []models.Role
	if err := r.db.Where("code IN ? AND status = ?", codes, true).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
