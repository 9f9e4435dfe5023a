package repository

import (
	"errors"
	"time"

	"github.com/learnchat-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmailCodeRepository 邮箱验证码数据访问接口
type EmailCodeRepository interface {
	GetByEmail(email string) (*models.EmailCode, error)
	GetVerifiedByEmail(email string) (*models.EmailCode, error)
	Refresh(email, code string, refreshTime int, at time.Time) error
	MarkVerified(email string, at time.Time) error
	IncrementTryTime(email string, tryTime int, at time.Time) error
	Delete(email string) error
}

// GormEmailCodeRepository GORM 实现
type GormEmailCodeRepository struct {
	db *gorm.DB
}

// NewEmailCodeRepository 创建验证码仓库
func NewEmailCodeRepository(db *gorm.DB) *GormEmailCodeRepository {
	return &GormEmailCodeRepository{db: db}
}

// GetByEmail 根据邮箱获取验证码记录
func (r *GormEmailCodeRepository) GetByEmail(email string) (*models.EmailCode, error) {
	var code models.EmailCode
	if err := r.db.Where("email = ?", email).First(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// GetVerifiedByEmail 获取已验证的记录
func (r *GormEmailCodeRepository) GetVerifiedByEmail(email string) (*models.EmailCode, error) {
	var code models.EmailCode
	if err := r.db.Where("email = ? AND verified = ?", email, true).First(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// Refresh 签发新验证码并重置验证状态
func (r *GormEmailCodeRepository) Refresh(email, code string, refreshTime int, at time.Time) error {
	record := models.EmailCode{
		Email:       email,
		Code:        code,
		RefreshTime: refreshTime,
		TryTime:     0,
		Verified:    false,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"code", "refresh_time", "try_time", "verified", "created_at", "updated_at",
		}),
	}).Create(&record).Error
}

// MarkVerified 标记验证通过
func (r *GormEmailCodeRepository) MarkVerified(email string, at time.Time) error {
	return r.db.Model(&models.EmailCode{}).Where("email = ?", email).
		Updates(map[string]interface{}{"verified": true, "updated_at": at}).Error
}

// IncrementTryTime 写入错误输入次数
func (r *GormEmailCodeRepository) IncrementTryTime(email string, tryTime int, at time.Time) error {
	return r.db.Model(&models.EmailCode{}).Where("email = ?", email).
		Updates(map[string]interface{}{"try_time": tryTime, "updated_at": at}).Error
}

// Delete 删除验证码记录（注册或重置密码消费后调用）
func (r *GormEmailCodeRepository) Delete(email string) error {
	return r.db.Where("email = ?", email).Delete(&models.EmailCode{}).Error
}
