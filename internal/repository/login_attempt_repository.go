package repository

import (
	"errors"
	"time"

	"github.com/learnchat-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoginAttemptRepository 登录失败计数数据访问接口
type LoginAttemptRepository interface {
	Get(userID uint) (*models.LoginAttempt, error)
	Upsert(userID uint, tryTime int, at time.Time) error
	Delete(userID uint) error
}

// GormLoginAttemptRepository GORM 实现
type GormLoginAttemptRepository struct {
	db *gorm.DB
}

// NewLoginAttemptRepository 创建登录计数仓库
func NewLoginAttemptRepository(db *gorm.DB) *GormLoginAttemptRepository {
	return &GormLoginAttemptRepository{db: db}
}

// Get 获取计数记录
func (r *GormLoginAttemptRepository) Get(userID uint) (*models.LoginAttempt, error) {
	var attempt models.LoginAttempt
	if err := r.db.Where("user_id = ?", userID).First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

// Upsert 写入计数与窗口起点
func (r *GormLoginAttemptRepository) Upsert(userID uint, tryTime int, at time.Time) error {
	attempt := models.LoginAttempt{
		UserID:    userID,
		TryTime:   tryTime,
		UpdatedAt: at,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"try_time", "updated_at"}),
	}).Create(&attempt).Error
}

// Delete 删除计数记录（登录成功后调用）
func (r *GormLoginAttemptRepository) Delete(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.LoginAttempt{}).Error
}
