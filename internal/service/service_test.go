package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/config"
	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// testEnv 服务层测试环境，所有仓储与服务共享同一个内存数据库
type testEnv struct {
	db              *gorm.DB
	cfg             *config.Config
	userRepo        *repository.GormUserRepository
	categoryRepo    *repository.GormCategoryRepository
	productRepo     *repository.GormProductRepository
	cartRepo        *repository.GormCartRepository
	couponRepo      *repository.GormCouponRepository
	orderRepo       *repository.GormOrderRepository
	paymentRepo     *repository.GormPaymentRepository
	categoryService *CategoryService
	productService  *ProductService
	couponService   *CouponService
	cartService     *CartService
	orderService    *OrderService
	paymentService  *PaymentService
	vipService      *VipService
	authService     *UserAuthService
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}

	previous := models.DB
	models.DB = db
	t.Cleanup(func() {
		models.DB = previous
	})

	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret-key-0123456789abcdef"
	cfg.UserJWT.ExpireHours = 1
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 8}
	cfg.Order.PaymentExpireMinutes = 15

	env := &testEnv{
		db:           db,
		cfg:          cfg,
		userRepo:     repository.NewUserRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		productRepo:  repository.NewProductRepository(db),
		cartRepo:     repository.NewCartRepository(db),
		couponRepo:   repository.NewCouponRepository(db),
		orderRepo:    repository.NewOrderRepository(db),
		paymentRepo:  repository.NewPaymentRepository(db),
	}
	env.categoryService = NewCategoryService(env.categoryRepo, env.productRepo)
	env.productService = NewProductService(env.productRepo, env.categoryRepo)
	env.couponService = NewCouponService(env.couponRepo, env.userRepo)
	env.cartService = NewCartService(env.cartRepo, env.productRepo, env.userRepo)
	env.orderService = NewOrderService(cfg, env.orderRepo, env.productRepo, env.cartRepo, env.couponRepo, env.paymentRepo, env.userRepo, env.couponService, nil)
	env.paymentService = NewPaymentService(cfg, env.paymentRepo, env.orderRepo, env.orderService)
	env.vipService = NewVipService(env.userRepo, env.couponService)
	env.authService = NewUserAuthService(cfg, env.userRepo, env.couponService)
	return env
}

func (e *testEnv) createUser(t *testing.T, email, role string, memberSince time.Time) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "tester",
		Role:         role,
		MemberSince:  memberSince,
	}
	if err := e.userRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (e *testEnv) createCategory(t *testing.T, name string, displayOrder int) *models.Category {
	t.Helper()
	category := &models.Category{
		Name:         name,
		IsActive:     true,
		DisplayOrder: displayOrder,
	}
	if err := e.categoryRepo.Create(category); err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return category
}

func (e *testEnv) createProduct(t *testing.T, name string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:   name,
		Price:  models.NewMoneyFromInt(price),
		Stock:  stock,
		Status: constants.ProductStatusActive,
	}
	if err := e.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (e *testEnv) createCoupon(t *testing.T, userID uint, amount int64, expiresAt time.Time) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		Code:           fmt.Sprintf("TEST-%s-%d", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano()),
		UserID:         userID,
		Type:           constants.CouponTypeWelcome,
		DiscountType:   constants.CouponDiscountFixed,
		DiscountAmount: models.NewMoneyFromInt(amount),
		ExpiresAt:      expiresAt,
	}
	if err := e.couponRepo.Create(coupon); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func (e *testEnv) addToCart(t *testing.T, userID, productID uint, quantity int) {
	t.Helper()
	if err := e.cartService.AddItem(userID, productID, quantity); err != nil {
		t.Fatalf("add cart item failed: %v", err)
	}
}
