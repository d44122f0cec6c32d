package router

import (
	"fmt"
	"strings"

	"github.com/h-h0304/Commerce-Coupon/internal/cache"
	"github.com/h-h0304/Commerce-Coupon/internal/config"
	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	adminhandlers "github.com/h-h0304/Commerce-Coupon/internal/http/handlers/admin"
	publichandlers "github.com/h-h0304/Commerce-Coupon/internal/http/handlers/public"
	"github.com/h-h0304/Commerce-Coupon/internal/logger"
	"github.com/h-h0304/Commerce-Coupon/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "登录尝试过于频繁，请 %d 秒后重试",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}
		apiV1.GET("/captcha/image", publicHandler.GetImageCaptcha)
		apiV1.GET("/categories", publicHandler.GetCategories)
		apiV1.GET("/categories/:id", publicHandler.GetCategory)
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)

		// 用户接口（需鉴权）
		user := apiV1.Group("/user")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserAuthService), RBACMiddleware(c.AuthzService))
		{
			user.GET("/profile", publicHandler.GetCurrentUser)
			user.GET("/vip", publicHandler.GetVipStatus)
			user.POST("/vip/promote", publicHandler.PromoteToVip)

			user.GET("/cart", publicHandler.GetCart)
			user.DELETE("/cart", publicHandler.ClearCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items/:product_id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)

			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.GET("/orders/by-order-no/:order_no", publicHandler.GetOrderByNo)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)

			user.GET("/coupons", publicHandler.ListMyCoupons)
			user.GET("/coupons/:id", publicHandler.GetMyCoupon)

			user.POST("/payments", publicHandler.PreparePayment)
			user.GET("/payments/:payment_key", publicHandler.GetPayment)
			user.POST("/payments/:payment_key/capture", publicHandler.CompletePayment)
			user.POST("/payments/:payment_key/cancel", publicHandler.CancelPayment)
		}

		// 管理员接口（需鉴权 + RBAC）
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserAuthService), RBACMiddleware(c.AuthzService))
		{
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeactivateCategory)

			admin.GET("/products", adminHandler.ListProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PATCH("/orders/:id", adminHandler.UpdateOrderStatus)

			admin.GET("/coupons", adminHandler.ListCoupons)
			admin.GET("/coupons/statistics", adminHandler.GetCouponStatistics)
			admin.POST("/coupons/birthday", adminHandler.IssueBirthdayCoupon)

			admin.GET("/payments", adminHandler.ListPayments)

			admin.GET("/vip/statistics", adminHandler.GetVipStatistics)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
