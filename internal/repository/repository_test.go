package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupRepoDB 每个用例独享一个共享缓存内存库
func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func mustCreateProduct(t *testing.T, db *gorm.DB, name string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:   name,
		Price:  models.NewMoneyFromInt(10000),
		Stock:  stock,
		Status: constants.ProductStatusActive,
	}
	if err := NewProductRepository(db).Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func mustCreateCoupon(t *testing.T, db *gorm.DB, userID uint, couponType string, expiresAt time.Time) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		Code:           fmt.Sprintf("RC-%s-%d", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano()),
		UserID:         userID,
		Type:           couponType,
		DiscountType:   constants.CouponDiscountFixed,
		DiscountAmount: models.NewMoneyFromInt(5000),
		ExpiresAt:      expiresAt,
	}
	if err := NewCouponRepository(db).Create(coupon); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func mustCreateOrder(t *testing.T, db *gorm.DB, userID uint, orderNo, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:        orderNo,
		UserID:         userID,
		Status:         status,
		OriginalAmount: models.NewMoneyFromInt(10000),
		FinalAmount:    models.NewMoneyFromInt(10000),
	}
	if err := NewOrderRepository(db).Create(order, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}
