package provider

import (
	"github.com/h-h0304/Commerce-Coupon/internal/authz"
	"github.com/h-h0304/Commerce-Coupon/internal/cache"
	"github.com/h-h0304/Commerce-Coupon/internal/config"
	"github.com/h-h0304/Commerce-Coupon/internal/logger"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
	"github.com/h-h0304/Commerce-Coupon/internal/queue"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"
	"github.com/h-h0304/Commerce-Coupon/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo     *repository.GormUserRepository
	CategoryRepo *repository.GormCategoryRepository
	ProductRepo  *repository.GormProductRepository
	CartRepo    *repository.GormCartRepository
	CouponRepo  *repository.GormCouponRepository
	OrderRepo   repository.OrderRepository
	PaymentRepo *repository.GormPaymentRepository

	// Services
	AuthzService    *authz.Service
	UserAuthService *service.UserAuthService
	CaptchaService  *service.CaptchaService
	CategoryService *service.CategoryService
	ProductService  *service.ProductService
	CartService     *service.CartService
	CouponService   *service.CouponService
	OrderService    *service.OrderService
	PaymentService  *service.PaymentService
	VipService      *service.VipService
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
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.UserRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.CouponService)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, c.ProductRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.UserRepo)
	c.OrderService = service.NewOrderService(c.Config, c.OrderRepo, c.ProductRepo, c.CartRepo, c.CouponRepo, c.PaymentRepo, c.UserRepo, c.CouponService, c.QueueClient)
	c.PaymentService = service.NewPaymentService(c.Config, c.PaymentRepo, c.OrderRepo, c.OrderService)
	c.VipService = service.NewVipService(c.UserRepo, c.CouponService)
}
