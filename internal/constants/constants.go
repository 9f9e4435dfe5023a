package constants

// 角色代码常量
const (
	RoleLearner = "LEARNER"
	RoleAdmin   = "ADMIN"
)

// Redis 键常量
const (
	// WorldMessageKey 世界消息有序集合键
	WorldMessageKey = "WORLD"
	// PrivateMessageKeyPrefix 私信队列键前缀
	PrivateMessageKeyPrefix = "TO_"
)

// 请求上下文键常量
const (
	// ContextUserKey 认证用户
	ContextUserKey = "auth_user"
	// ContextKeyKey 认证密钥对
	ContextKeyKey = "auth_key"
	// ContextAccessTokenKey 原始访问令牌
	ContextAccessTokenKey = "auth_access_token"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskVerifyCodeEmail    = "email:verify_code"
	TaskResetPasswordEmail = "email:reset_password"
)
