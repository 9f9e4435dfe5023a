package response

// 业务状态码，客户端据此区分成功、失败与令牌过期
const (
	StatusSuccess            = 10000
	StatusFailure            = 10001
	StatusRetry              = 10002
	StatusInvalidAccessToken = 10003
)

// InstructionHeader 令牌过期响应附带的指令头
const InstructionHeader = "instruction"

// InstructionRefreshToken 指示客户端刷新令牌
const InstructionRefreshToken = "refresh_token"
