package config

import (
	"fmt"
	"strings"

	"github.com/learnchat-next/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Token    TokenConfig    `mapstructure:"token"`
	Rule     RuleConfig     `mapstructure:"rule"`
	Upload   UploadConfig   `mapstructure:"upload"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// TokenConfig 令牌配置
type TokenConfig struct {
	PrivateKeyPath         string `mapstructure:"private_key_path"`
	PublicKeyPath          string `mapstructure:"public_key_path"`
	Issuer                 string `mapstructure:"issuer"`
	Audience               string `mapstructure:"audience"`
	AccessValiditySeconds  int    `mapstructure:"access_validity_seconds"`
	RefreshValiditySeconds int    `mapstructure:"refresh_validity_seconds"`
}

// RuleConfig 业务规则配置
type RuleConfig struct {
	Login  LoginRuleConfig  `mapstructure:"login"`
	Email  EmailRuleConfig  `mapstructure:"email"`
	Name   NameRuleConfig   `mapstructure:"name"`
	Avatar AvatarRuleConfig `mapstructure:"avatar"`
	Wmsg   WmsgRuleConfig   `mapstructure:"wmsg"`
	Rate   RateRuleConfig   `mapstructure:"rate"`
}

// RateRuleConfig 接口频率限制规则
type RateRuleConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// LoginRuleConfig 登录限制规则
type LoginRuleConfig struct {
	MaxTryTime   int `mapstructure:"max_try_time"`
	RenewSeconds int `mapstructure:"renew_seconds"`
}

// EmailRuleConfig 邮箱验证码规则
type EmailRuleConfig struct {
	MaxRefreshTime int `mapstructure:"max_refresh_time"`
	MaxTryTime     int `mapstructure:"max_try_time"`
	EnterInSeconds int `mapstructure:"enter_in_seconds"`
	ValidInSeconds int `mapstructure:"valid_in_seconds"`
	RenewSeconds   int `mapstructure:"renew_seconds"`
}

// NameRuleConfig 改名冷却规则
type NameRuleConfig struct {
	RenewSeconds int `mapstructure:"renew_seconds"`
}

// AvatarRuleConfig 头像上传规则
type AvatarRuleConfig struct {
	MaxSize   int64    `mapstructure:"max_size"`
	MimeTypes []string `mapstructure:"mime_types"`
}

// WmsgRuleConfig 世界消息规则
type WmsgRuleConfig struct {
	MaxGet      int `mapstructure:"max_get"`
	MaxCapacity int `mapstructure:"max_capacity"`
}

// UploadConfig 上传目录配置
type UploadConfig struct {
	PublicDir string `mapstructure:"public_dir"`
	AvatarDir string `mapstructure:"avatar_dir"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// Load 加载配置文件
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("./")    // 备用路径
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "app.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/learnchat.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "lc")
	viper.SetDefault("queue.enabled", true)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 10)
	viper.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	viper.SetDefault("token.private_key_path", "./keys/private.pem")
	viper.SetDefault("token.public_key_path", "./keys/public.pem")
	viper.SetDefault("token.issuer", "api.learnchat.dev")
	viper.SetDefault("token.audience", "learnchat.dev")
	viper.SetDefault("token.access_validity_seconds", 3600)
	viper.SetDefault("token.refresh_validity_seconds", 604800)
	viper.SetDefault("rule.login.max_try_time", 5)
	viper.SetDefault("rule.login.renew_seconds", 3600)
	viper.SetDefault("rule.email.max_refresh_time", 2)
	viper.SetDefault("rule.email.max_try_time", 3)
	viper.SetDefault("rule.email.enter_in_seconds", 75)
	viper.SetDefault("rule.email.valid_in_seconds", 60)
	viper.SetDefault("rule.email.renew_seconds", 3600)
	viper.SetDefault("rule.name.renew_seconds", 604800)
	viper.SetDefault("rule.avatar.max_size", 2097152)
	viper.SetDefault("rule.avatar.mime_types", []string{"image/png", "image/jpeg"})
	viper.SetDefault("rule.wmsg.max_get", 3)
	viper.SetDefault("rule.wmsg.max_capacity", 9)
	viper.SetDefault("rule.rate.window_seconds", 60)
	viper.SetDefault("rule.rate.max_requests", 30)
	viper.SetDefault("upload.public_dir", "./public")
	viper.SetDefault("upload.avatar_dir", "avatars")
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)

	// 环境变量支持
	viper.AutomaticEnv()                                   // 自动读取环境变量
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 server.port -> SERVER_PORT)

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	normalizeConfig(&cfg)
	return &cfg
}

func normalizeConfig(cfg *Config) {
	cfg.Server.Mode = strings.ToLower(strings.TrimSpace(cfg.Server.Mode))
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.Redis.Prefix = strings.TrimSpace(cfg.Redis.Prefix); cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "lc"
	}
}
