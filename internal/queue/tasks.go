package queue

import (
	"encoding/json"

	"github.com/learnchat-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskVerifyCodeEmail 邮箱验证码投递任务
	TaskVerifyCodeEmail = constants.TaskVerifyCodeEmail
	// TaskResetPasswordEmail 重置密码投递任务
	TaskResetPasswordEmail = constants.TaskResetPasswordEmail
)

// VerifyCodeEmailPayload 验证码邮件任务载荷
type VerifyCodeEmailPayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ResetPasswordEmailPayload 重置密码邮件任务载荷
type ResetPasswordEmailPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewVerifyCodeEmailTask 创建验证码邮件任务
func NewVerifyCodeEmailTask(payload VerifyCodeEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVerifyCodeEmail, body), nil
}

// NewResetPasswordEmailTask 创建重置密码邮件任务
func NewResetPasswordEmailTask(payload ResetPasswordEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskResetPasswordEmail, body), nil
}
