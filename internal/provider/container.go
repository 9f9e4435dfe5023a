package provider

import (
	"github.com/learnchat-next/internal/cache"
	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/logger"
	"github.com/learnchat-next/internal/mail"
	"github.com/learnchat-next/internal/models"
	"github.com/learnchat-next/internal/queue"
	"github.com/learnchat-next/internal/repository"
	"github.com/learnchat-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Mailer      mail.Sender

	// Repositories
	UserRepo         repository.UserRepository
	RoleRepo         repository.RoleRepository
	KeyRepo          repository.KeyRepository
	LoginAttemptRepo repository.LoginAttemptRepository
	EmailCodeRepo    repository.EmailCodeRepository

	// Caches
	WorldMsgCache   *cache.WorldMessageCache
	PrivateMsgCache *cache.PrivateMessageCache

	// Services
	TokenService     *service.TokenService
	AuthService      *service.AuthService
	EmailCodeService *service.EmailCodeService
	UserService      *service.UserService
	MessageService   *service.MessageService
	UploadService    *service.UploadService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Mailer:      mail.NewLogSender(),
	}

	c.initRepositories()
	c.initCaches()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.RoleRepo = repository.NewRoleRepository(db)
	c.KeyRepo = repository.NewKeyRepository(db)
	c.LoginAttemptRepo = repository.NewLoginAttemptRepository(db)
	c.EmailCodeRepo = repository.NewEmailCodeRepository(db)
}

func (c *Container) initCaches() {
	client := cache.Client()
	prefix := cache.Prefix()
	c.WorldMsgCache = cache.NewWorldMessageCache(client, prefix, c.Config.Rule.Wmsg.MaxGet, c.Config.Rule.Wmsg.MaxCapacity)
	c.PrivateMsgCache = cache.NewPrivateMessageCache(client, prefix)
}

func (c *Container) initServices() {
	tokenService, err := service.NewTokenService(c.Config.Token)
	if err != nil {
		logger.Errorw("provider_init_token_service_failed", "error", err)
		panic(err)
	}
	c.TokenService = tokenService

	c.EmailCodeService = service.NewEmailCodeService(c.Config.Rule.Email, c.EmailCodeRepo, c.QueueClient)
	c.AuthService = service.NewAuthService(
		c.Config,
		c.UserRepo,
		c.RoleRepo,
		c.KeyRepo,
		c.LoginAttemptRepo,
		c.TokenService,
		c.EmailCodeService,
		c.QueueClient,
	)
	c.UserService = service.NewUserService(c.Config, c.UserRepo)
	c.MessageService = service.NewMessageService(c.WorldMsgCache, c.PrivateMsgCache)
	c.UploadService = service.NewUploadService(c.Config)
}
