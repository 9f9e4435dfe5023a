package repository

import (
	"errors"
	"time"

	"github.com/learnchat-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	GetPublicByID(id uint) (*models.User, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByName(name string) (bool, error)
	Create(user *models.User) error
	UpdateProfile(id uint, fields map[string]interface{}) (*models.User, error)
	UpdateName(id uint, name string, at time.Time) (*models.User, error)
	UpdateAvatar(id uint, avatar string) (*models.User, error)
	UpdatePasswordByEmail(email, passwordHash string) error
	SearchNameLike(like string) ([]models.User, error)
	List(page, limit int) ([]models.User, error)
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByEmail 根据邮箱获取用户（含角色）
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取用户（含角色）
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Roles").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetPublicByID 根据 ID 获取用户（不含角色，供公开资料）
func (r *GormUserRepository) GetPublicByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail 判断邮箱是否已注册
func (r *GormUserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByName 判断展示名是否已占用
func (r *GormUserRepository) ExistsByName(name string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// UpdateProfile 更新公开资料字段，返回最新记录
func (r *GormUserRepository) UpdateProfile(id uint, fields map[string]interface{}) (*models.User, error) {
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.GetPublicByID(id)
}

// UpdateName 更新展示名并记录改名时间
func (r *GormUserRepository) UpdateName(id uint, name string, at time.Time) (*models.User, error) {
	updates := map[string]interface{}{
		"name":            name,
		"name_updated_at": at,
	}
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetPublicByID(id)
}

// UpdateAvatar 更新头像文件名
func (r *GormUserRepository) UpdateAvatar(id uint, avatar string) (*models.User, error) {
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Update("avatar", avatar).Error; err != nil {
		return nil, err
	}
	return r.GetPublicByID(id)
}

// UpdatePasswordByEmail 按邮箱更新密码哈希
func (r *GormUserRepository) UpdatePasswordByEmail(email, passwordHash string) error {
	return r.db.Model(&models.User{}).Where("email = ?", email).
		Update("password_hash", passwordHash).Error
}

// SearchNameLike 展示名模糊搜索（含角色）
func (r *GormUserRepository) SearchNameLike(like string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Preload("Roles").
		Where("name LIKE ?", "%"+like+"%").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// List 分页列出用户，按展示名升序
func (r *GormUserRepository) List(page, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	if page < 0 {
		page = 0
	}
	var users []models.User
	if err := r.db.Preload("Roles").
		Order("name ASC").
		Offset(page * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
