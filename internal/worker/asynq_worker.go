package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/learnchat-next/internal/logger"
	"github.com/learnchat-next/internal/provider"
	"github.com/learnchat-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskVerifyCodeEmail, c.handleVerifyCodeEmail)
	mux.HandleFunc(queue.TaskResetPasswordEmail, c.handleResetPasswordEmail)
}

func (c *Consumer) handleVerifyCodeEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_verify_code_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.VerifyCodeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_verify_code_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Code == "" {
		logger.Debugw("worker_verify_code_email_skip_invalid_payload", "email", email)
		return nil
	}
	if c.Mailer == nil {
		logger.Warnw("worker_verify_code_email_skip_mailer_nil", "email", email)
		return nil
	}
	if err := c.Mailer.SendVerifyCode(email, payload.Code); err != nil {
		logger.Warnw("worker_verify_code_email_send_failed", "email", email, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleResetPasswordEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_reset_password_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ResetPasswordEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_reset_password_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Password == "" {
		logger.Debugw("worker_reset_password_email_skip_invalid_payload", "email", email)
		return nil
	}
	if c.Mailer == nil {
		logger.Warnw("worker_reset_password_email_skip_mailer_nil", "email", email)
		return nil
	}
	if err := c.Mailer.SendResetPassword(email, payload.Password); err != nil {
		logger.Warnw("worker_reset_password_email_send_failed", "email", email, "error", err)
		return err
	}
	return nil
}
