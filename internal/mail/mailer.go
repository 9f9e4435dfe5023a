package mail

import "github.com/learnchat-next/internal/logger"

// Sender 邮件发送契约
type Sender interface {
	SendVerifyCode(email, code string) error
	SendResetPassword(email, password string) error
}

// LogSender 仅记录日志的发送实现（本服务不接真实邮件通道）
type LogSender struct{}

// NewLogSender 创建日志发送器
func NewLogSender() *LogSender {
	return &LogSender{}
}

// SendVerifyCode 记录验证码投递
func (s *LogSender) SendVerifyCode(email, code string) error {
	logger.Infow("mail_verify_code_sent", "email", email, "code_length", len(code))
	return nil
}

// SendResetPassword 记录新密码投递，密码本身不落日志
func (s *LogSender) SendResetPassword(email, _ string) error {
	logger.Infow("mail_reset_password_sent", "email", email)
	return nil
}
