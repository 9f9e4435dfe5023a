package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/http/response"
	"github.com/learnchat-next/internal/logger"
	"github.com/learnchat-next/internal/queue"
	"github.com/learnchat-next/internal/repository"
)

// EmailCodeService 邮箱验证码服务，管理 刷新/校验/已验证 状态机
type EmailCodeService struct {
	cfg   config.EmailRuleConfig
	repo  repository.EmailCodeRepository
	queue *queue.Client
	now   func() time.Time
}

// NewEmailCodeService 创建邮箱验证码服务
func NewEmailCodeService(cfg config.EmailRuleConfig, repo repository.EmailCodeRepository, queueClient *queue.Client) *EmailCodeService {
	return &EmailCodeService{
		cfg:   cfg,
		repo:  repo,
		queue: queueClient,
		now:   time.Now,
	}
}

// Refresh 签发或刷新验证码，返回给客户端的提示语
func (s *EmailCodeService) Refresh(email string) (string, error) {
	if email == "" {
		return "", response.ErrBadRequest("")
	}
	now := s.now()
	ecode, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", response.ErrInternal("", err)
	}
	if ecode == nil {
		return "Email code issued", s.issue(email, 0, now)
	}
	if ecode.Verified {
		if ecode.UpdatedAt.Add(time.Duration(s.cfg.ValidInSeconds) * time.Second).After(now) {
			return "", response.ErrBadRequest("Have verified recently, you can sign up or reset password.")
		}
		return "Email code issued", s.issue(email, 0, now)
	}
	// 未验证记录：冷却期满则重置计数，否则受刷新次数上限约束
	if !ecode.UpdatedAt.Add(time.Duration(s.cfg.RenewSeconds) * time.Second).After(now) {
		return "Email code issued", s.issue(email, 0, now)
	}
	if ecode.RefreshTime >= s.cfg.MaxRefreshTime {
		return "", response.ErrForbidden(fmt.Sprintf(
			"You can refresh email code for %d times, you can try again after %s",
			s.cfg.MaxRefreshTime,
			ecode.UpdatedAt.Add(time.Duration(s.cfg.RenewSeconds)*time.Second).Format(time.RFC1123),
		))
	}
	if err := s.issue(email, ecode.RefreshTime+1, now); err != nil {
		return "", err
	}
	msg := "Email code refreshed"
	if ecode.RefreshTime+1 == s.cfg.MaxRefreshTime {
		msg = "Email code refreshed, the last time"
	}
	return msg, nil
}

// Verify 校验用户输入的验证码；输入错误不是请求失败，以 ok=false 返回
func (s *EmailCodeService) Verify(email, code string) (msg string, ok bool, err error) {
	now := s.now()
	ecode, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", false, response.ErrInternal("", err)
	}
	if ecode == nil {
		return "", false, response.ErrBadRequest("There is no code available for this email.")
	}
	if ecode.Verified {
		if ecode.UpdatedAt.Add(time.Duration(s.cfg.ValidInSeconds) * time.Second).After(now) {
			return "", false, response.ErrBadRequest("This email have already been verified.")
		}
		return "", false, response.ErrBadRequest("You have verified for a while, please refresh new code and verify your email again.")
	}
	if ecode.CreatedAt.Add(time.Duration(s.cfg.EnterInSeconds) * time.Second).Before(now) {
		return "", false, response.ErrForbidden(fmt.Sprintf(
			"Code has expired, you may refresh a new one then enter the code in less than %d seconds.",
			s.cfg.EnterInSeconds,
		))
	}
	if ecode.TryTime >= s.cfg.MaxTryTime {
		return "", false, response.ErrForbidden(fmt.Sprintf(
			"You have entered wrong codes for %d times, you may refresh a new code and try again.",
			s.cfg.MaxTryTime,
		))
	}
	if code == ecode.Code {
		if err := s.repo.MarkVerified(email, now); err != nil {
			return "", false, response.ErrInternal("", err)
		}
		return "Verified successfully", true, nil
	}
	if err := s.repo.IncrementTryTime(email, ecode.TryTime+1, now); err != nil {
		return "", false, response.ErrInternal("", err)
	}
	msg = "Wrong code, try again."
	if ecode.TryTime+1 == s.cfg.MaxTryTime {
		msg = "Wrong code, you may refresh a new code and try again."
	}
	return msg, false, nil
}

// AssertVerified 断言邮箱已在验证窗口内完成验证（注册/重置密码的前置检查）
func (s *EmailCodeService) AssertVerified(email string) error {
	if email == "" {
		return response.ErrBadRequest("")
	}
	ecode, err := s.repo.GetVerifiedByEmail(email)
	if err != nil {
		return response.ErrInternal("", err)
	}
	if ecode == nil {
		return response.ErrForbidden("Please verify your email first.")
	}
	if ecode.UpdatedAt.Add(time.Duration(s.cfg.ValidInSeconds) * time.Second).Before(s.now()) {
		return response.ErrForbidden("Please verify your email again.")
	}
	return nil
}

// Remove 清除验证码记录（注册或重置密码成功后调用）
func (s *EmailCodeService) Remove(email string) error {
	if err := s.repo.Delete(email); err != nil {
		return response.ErrInternal("", err)
	}
	return nil
}

func (s *EmailCodeService) issue(email string, refreshTime int, now time.Time) error {
	code, err := newDigitCode(6)
	if err != nil {
		return response.ErrInternal("", err)
	}
	if err := s.repo.Refresh(email, code, refreshTime, now); err != nil {
		return response.ErrInternal("", err)
	}
	if err := s.queue.EnqueueVerifyCodeEmail(queue.VerifyCodeEmailPayload{Email: email, Code: code}); err != nil {
		logger.Warnw("email_code_enqueue_failed", "email", email, "error", err)
	}
	return nil
}

// newDigitCode 生成指定位数的随机数字串
func newDigitCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
