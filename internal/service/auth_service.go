package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/constants"
	"github.com/learnchat-next/internal/http/response"
	"github.com/learnchat-next/internal/logger"
	"github.com/learnchat-next/internal/models"
	"github.com/learnchat-next/internal/queue"
	"github.com/learnchat-next/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// AuthService 认证服务：登录、注册、注销、令牌刷新与密码管理
type AuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	keyRepo      repository.KeyRepository
	attemptRepo  repository.LoginAttemptRepository
	tokenService *TokenService
	emailCodes   *EmailCodeService
	queue        *queue.Client
	now          func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	keyRepo repository.KeyRepository,
	attemptRepo repository.LoginAttemptRepository,
	tokenService *TokenService,
	emailCodes *EmailCodeService,
	queueClient *queue.Client,
) *AuthService {
	return &AuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		keyRepo:      keyRepo,
		attemptRepo:  attemptRepo,
		tokenService: tokenService,
		emailCodes:   emailCodes,
		queue:        queueClient,
		now:          time.Now,
	}
}

// Login 邮箱密码登录，成功后轮换密钥并签发令牌对
func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, nil, response.ErrInternal("", err)
	}
	if user == nil {
		return nil, nil, response.ErrBadRequest("User does not exist.")
	}
	if !user.Status {
		return nil, nil, response.ErrAuthFailure("User is currently invalid.")
	}

	// 比对密码前先登记尝试，锁定窗口内超限直接拒绝
	timesLeft, err := s.registerAttempt(user.ID)
	if err != nil {
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, response.ErrAuthFailure(fmt.Sprintf(
			"Invalid password! You have %d times left to try.", timesLeft,
		))
	}

	tokens, err := s.logUser(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	if err := s.attemptRepo.Delete(user.ID); err != nil {
		return nil, nil, response.ErrInternal("", err)
	}
	return user, tokens, nil
}

// Signup 注册新用户，前置要求邮箱已通过验证
func (s *AuthService) Signup(email, password string) (*models.User, *TokenPair, error) {
	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, nil, response.ErrInternal("", err)
	}
	if exists {
		return nil, nil, response.ErrForbidden("User has already existed!")
	}
	if err := s.emailCodes.AssertVerified(email); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, nil, response.ErrInternal("", err)
	}
	learner, err := s.roleRepo.GetByCode(constants.RoleLearner)
	if err != nil {
		return nil, nil, response.ErrInternal("", err)
	}
	if learner == nil {
		return nil, nil, response.ErrInternal("", fmt.Errorf("role %s not seeded", constants.RoleLearner))
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         newUserName(s.now()),
		Roles:        []models.Role{*learner},
		Status:       true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, response.ErrInternal("", err)
	}
	tokens, err := s.logUser(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	if err := s.emailCodes.Remove(email); err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Logout 删除用户密钥对，令已签发令牌全部失效
func (s *AuthService) Logout(userID uint) error {
	if err := s.keyRepo.DeleteByUserID(userID); err != nil {
		return response.ErrInternal("", err)
	}
	return nil
}

// Authenticate 校验访问令牌并装载用户（请求管线的认证步骤）
func (s *AuthService) Authenticate(accessToken string) (*models.User, *models.AuthKey, error) {
	claims, err := s.tokenService.Validate(accessToken)
	if err != nil {
		return nil, nil, err
	}
	userID, err := s.tokenService.ValidatePayload(claims)
	if err != nil {
		return nil, nil, err
	}
	key, err := s.keyRepo.GetByUserID(userID)
	if err != nil {
		return nil, nil, response.ErrInternal("", err)
	}
	if key == nil || key.PrimaryKey != claims.Param {
		return nil, nil, response.ErrBadToken("Key does not exist")
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, nil, response.ErrInternal("", err)
	}
	if user == nil {
		return nil, nil, response.ErrAuthFailure("User does not exist")
	}
	return user, key, nil
}

// RefreshTokens 用过期访问令牌加刷新令牌换取新令牌对
func (s *AuthService) RefreshTokens(accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenService.Decode(accessToken)
	if err != nil {
		return nil, err
	}
	userID, err := s.tokenService.ValidatePayload(claims)
	if err != nil {
		return nil, err
	}
	key, err := s.keyRepo.GetByUserID(userID)
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	if key == nil || key.PrimaryKey != claims.Param {
		return nil, response.ErrAccessToken("Invalid access token")
	}

	// 剩余有效期超过一成的访问令牌不允许刷新
	if claims.ExpiresAt != nil {
		remaining := claims.ExpiresAt.Time.Sub(s.now())
		if float64(remaining) >= float64(s.tokenService.AccessValidity())*0.1 {
			return nil, response.ErrBadRequest("Token is still usable")
		}
	}

	refreshClaims, err := s.tokenService.Validate(refreshToken)
	if err != nil {
		return nil, err
	}
	if _, err := s.tokenService.ValidatePayload(refreshClaims); err != nil {
		return nil, err
	}
	if refreshClaims.Subject != claims.Subject || refreshClaims.Param != key.SecondaryKey {
		return nil, response.ErrBadToken("Invalid refresh token")
	}

	return s.logUser(userID, key.Email)
}

// ResetPassword 重置密码为随机数字串并通过邮件投递，同时注销全部会话
func (s *AuthService) ResetPassword(email string) error {
	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return response.ErrInternal("", err)
	}
	if !exists {
		return response.ErrBadRequest("User does not exist.")
	}
	if err := s.emailCodes.AssertVerified(email); err != nil {
		return err
	}

	password, err := newDigitCode(6)
	if err != nil {
		return response.ErrInternal("", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return response.ErrInternal("", err)
	}
	if err := s.userRepo.UpdatePasswordByEmail(email, string(hash)); err != nil {
		return response.ErrInternal("", err)
	}
	if err := s.keyRepo.DeleteByEmail(email); err != nil {
		return response.ErrInternal("", err)
	}
	if err := s.emailCodes.Remove(email); err != nil {
		return err
	}
	if err := s.queue.EnqueueResetPasswordEmail(queue.ResetPasswordEmailPayload{Email: email, Password: password}); err != nil {
		logger.Warnw("reset_password_enqueue_failed", "email", email, "error", err)
	}
	return nil
}

// ChangePassword 已登录用户凭旧密码更换新密码
func (s *AuthService) ChangePassword(user *models.User, oldPassword, newPassword string) error {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return response.ErrBadRequest("Invalid password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return response.ErrInternal("", err)
	}
	if err := s.userRepo.UpdatePasswordByEmail(user.Email, string(hash)); err != nil {
		return response.ErrInternal("", err)
	}
	return nil
}

// registerAttempt 登记一次登录尝试，返回失败后剩余可尝试次数
func (s *AuthService) registerAttempt(userID uint) (int, error) {
	rule := s.cfg.Rule.Login
	now := s.now()
	attempt, err := s.attemptRepo.Get(userID)
	if err != nil {
		return 0, response.ErrInternal("", err)
	}
	if attempt == nil {
		if err := s.attemptRepo.Upsert(userID, 0, now); err != nil {
			return 0, response.ErrInternal("", err)
		}
		return rule.MaxTryTime - 1, nil
	}
	renew := time.Duration(rule.RenewSeconds) * time.Second
	if !attempt.UpdatedAt.Add(renew).After(now) {
		if err := s.attemptRepo.Upsert(userID, 0, now); err != nil {
			return 0, response.ErrInternal("", err)
		}
		return rule.MaxTryTime - 1, nil
	}
	if attempt.TryTime >= rule.MaxTryTime-1 {
		return 0, response.ErrForbidden(fmt.Sprintf(
			"Entered wrong password for %d times in sequence, you can reset password or try later after %s",
			rule.MaxTryTime,
			attempt.UpdatedAt.Add(renew).Format(time.RFC1123),
		))
	}
	if err := s.attemptRepo.Upsert(userID, attempt.TryTime+1, now); err != nil {
		return 0, response.ErrInternal("", err)
	}
	return rule.MaxTryTime - attempt.TryTime - 2, nil
}

// logUser 轮换随机密钥对并签发对应令牌对
func (s *AuthService) logUser(userID uint, email string) (*TokenPair, error) {
	primaryKey, err := newRandomKey()
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	secondaryKey, err := newRandomKey()
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	if err := s.keyRepo.Upsert(userID, email, primaryKey, secondaryKey); err != nil {
		return nil, response.ErrInternal("", err)
	}
	return s.tokenService.IssuePair(userID, primaryKey, secondaryKey)
}

// newUserName 生成默认展示名（user + 毫秒时间戳）
func newUserName(now time.Time) string {
	return "user" + strconv.FormatInt(now.UnixMilli(), 10)
}

// newRandomKey 生成 32 字节随机密钥的十六进制表示
func newRandomKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
