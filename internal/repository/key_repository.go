package repository

import (
	"errors"

	"github.com/learnchat-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyRepository 签名密钥对数据访问接口
type KeyRepository interface {
	GetByUserID(userID uint) (*models.AuthKey, error)
	Upsert(userID uint, email, primaryKey, secondaryKey string) error
	DeleteByUserID(userID uint) error
	DeleteByEmail(email string) error
}

// GormKeyRepository GORM 实现
type GormKeyRepository struct {
	db *gorm.DB
}

// NewKeyRepository 创建密钥仓库
func NewKeyRepository(db *gorm.DB) *GormKeyRepository {
	return &GormKeyRepository{db: db}
}

// GetByUserID 根据用户 ID 获取密钥对
func (r *GormKeyRepository) GetByUserID(userID uint) (*models.AuthKey, error) {
	var key models.AuthKey
	if err := r.db.Where("user_id = ?", userID).First(&key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &key, nil
}

// Upsert 写入或整体轮换密钥对
func (r *GormKeyRepository) Upsert(userID uint, email, primaryKey, secondaryKey string) error {
	key := models.AuthKey{
		UserID:       userID,
		Email:        email,
		PrimaryKey:   primaryKey,
		SecondaryKey: secondaryKey,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "primary_key", "secondary_key", "updated_at"}),
	}).Create(&key).Error
}

// DeleteByUserID 按用户 ID 删除密钥对（注销会话）
func (r *GormKeyRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.AuthKey{}).Error
}

// DeleteByEmail 按邮箱删除密钥对
func (r *GormKeyRepository) DeleteByEmail(email string) error {
	return r.db.Where("email = ?", email).Delete(&models.AuthKey{}).Error
}
