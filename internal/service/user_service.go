package service

import (
	"fmt"
	"time"

	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/http/response"
	"github.com/learnchat-next/internal/models"
	"github.com/learnchat-next/internal/repository"
)

// ProfileUpdateInput 公开资料可编辑字段，nil 表示不修改
type ProfileUpdateInput struct {
	Gender   *bool      `json:"gender"`
	Birthday *time.Time `json:"birthday"`
	City     *string    `json:"city"`
	Intro    *string    `json:"intro"`
}

// UserService 用户资料服务
type UserService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewUserService 创建用户资料服务
func NewUserService(cfg *config.Config, userRepo repository.UserRepository) *UserService {
	return &UserService{
		cfg:      cfg,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// GetPublicProfile 获取公开资料
func (s *UserService) GetPublicProfile(id uint) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetPublicByID(id)
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	if user == nil {
		return nil, response.ErrBadRequest("User does not exist")
	}
	profile := user.Public()
	return &profile, nil
}

// UpdateProfile 更新公开资料字段
func (s *UserService) UpdateProfile(userID uint, input ProfileUpdateInput) (*models.User, error) {
	fields := map[string]interface{}{}
	if input.Gender != nil {
		fields["gender"] = *input.Gender
	}
	if input.Birthday != nil {
		fields["birthday"] = *input.Birthday
	}
	if input.City != nil {
		fields["city"] = *input.City
	}
	if input.Intro != nil {
		fields["intro"] = *input.Intro
	}
	if len(fields) == 0 {
		return nil, response.ErrBadRequest("")
	}
	updated, err := s.userRepo.UpdateProfile(userID, fields)
	if err != nil {
		return nil, response.ErrInternal("Update profile failure", err)
	}
	return updated, nil
}

// UpdateName 更新展示名，受冷却期与唯一性约束
func (s *UserService) UpdateName(user *models.User, name string) (*models.User, error) {
	renew := time.Duration(s.cfg.Rule.Name.RenewSeconds) * time.Second
	if user.NameUpdatedAt != nil {
		allowedAt := user.NameUpdatedAt.Add(renew)
		if !allowedAt.Before(s.now()) {
			return nil, response.ErrForbidden(fmt.Sprintf(
				"You can only update name after %s", allowedAt.Format(time.RFC1123),
			))
		}
	}
	if user.Name == name {
		return nil, response.ErrBadRequest("This is your current name.")
	}
	taken, err := s.userRepo.ExistsByName(name)
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	if taken {
		return nil, response.ErrBadRequest("This name has already existed.")
	}
	updated, err := s.userRepo.UpdateName(user.ID, name, s.now())
	if err != nil {
		return nil, response.ErrInternal("Name update failure.", err)
	}
	return updated, nil
}

// UpdateAvatar 写入头像文件名
func (s *UserService) UpdateAvatar(userID uint, filename string) (*models.User, error) {
	updated, err := s.userRepo.UpdateAvatar(userID, filename)
	if err != nil {
		return nil, response.ErrInternal("Update avatar failure", err)
	}
	return updated, nil
}

// SearchNameLike 按展示名模糊搜索用户（管理端）
func (s *UserService) SearchNameLike(like string) ([]models.User, error) {
	users, err := s.userRepo.SearchNameLike(like)
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	return users, nil
}

// ListUsers 分页列出用户（管理端）
func (s *UserService) ListUsers(page, limit int) ([]models.User, error) {
	users, err := s.userRepo.List(page, limit)
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	return users, nil
}

// GetPrivateInfo 获取含角色的用户信息（管理端）
func (s *UserService) GetPrivateInfo(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	if user == nil {
		return nil, response.ErrBadRequest("User does not exist")
	}
	return user, nil
}
