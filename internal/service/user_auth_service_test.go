package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
)

func TestRegisterIssuesWelcomeCoupon(t *testing.T) {
	env := setupServiceTest(t)

	user, token, expiresAt, err := env.authService.Register("New.User@Example.com", "password123", "  新用户  ")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	// 邮箱小写归一化，姓名去除首尾空白
	if user.Email != "new.user@example.com" {
		t.Fatalf("email want normalized got %s", user.Email)
	}
	if user.Name != "新用户" {
		t.Fatalf("name want trimmed got %q", user.Name)
	}
	if user.Role != constants.RoleUser {
		t.Fatalf("role want USER got %s", user.Role)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("register should return a live token")
	}
	if user.LastLoginAt == nil {
		t.Fatalf("register should record last login time")
	}

	// 注册即发放 USER 档欢迎券
	var coupons []models.Coupon
	if err := env.db.Where("user_id = ? AND type = ?", user.ID, constants.CouponTypeWelcome).Find(&coupons).Error; err != nil {
		t.Fatalf("load coupons failed: %v", err)
	}
	if len(coupons) != 1 {
		t.Fatalf("welcome coupon count want 1 got %d", len(coupons))
	}
	if !coupons[0].DiscountAmount.Decimal.Equal(models.NewMoneyFromInt(5000).Decimal) {
		t.Fatalf("welcome amount want 5000 got %s", coupons[0].DiscountAmount.String())
	}

	// 返回的 Token 可解析且声明匹配
	claims, err := env.authService.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != user.Role {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestRegisterValidations(t *testing.T) {
	env := setupServiceTest(t)

	if _, _, _, err := env.authService.Register("not-an-email", "password123", "x"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad email want ErrInvalidEmail got %v", err)
	}
	if _, _, _, err := env.authService.Register("", "password123", "x"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("empty email want ErrInvalidEmail got %v", err)
	}
	if _, _, _, err := env.authService.Register("short@example.com", "short", "x"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password want ErrWeakPassword got %v", err)
	}

	if _, _, _, err := env.authService.Register("dup@example.com", "password123", "x"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	// 大小写不同视为同一邮箱
	if _, _, _, err := env.authService.Register("DUP@example.com", "password123", "x"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate email want ErrEmailExists got %v", err)
	}
}

func TestLogin(t *testing.T) {
	env := setupServiceTest(t)
	if _, _, _, err := env.authService.Register("login@example.com", "password123", "x"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, _, err := env.authService.Login("Login@Example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || user.Email != "login@example.com" {
		t.Fatalf("login result unexpected: %+v", user)
	}

	if _, _, _, err := env.authService.Login("login@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := env.authService.Login("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email want ErrInvalidCredentials got %v", err)
	}
}

func TestParseUserJWTRejectsTampering(t *testing.T) {
	env := setupServiceTest(t)
	_, token, _, err := env.authService.Register("jwt@example.com", "password123", "x")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := env.authService.ParseUserJWT(token + "x"); err == nil {
		t.Fatalf("tampered token should be rejected")
	}

	// 换密钥后旧 Token 不可用
	otherCfg := *env.cfg
	otherCfg.UserJWT.SecretKey = "another-secret-key-0123456789abcd"
	otherSvc := NewUserAuthService(&otherCfg, env.userRepo, env.couponService)
	if _, err := otherSvc.ParseUserJWT(token); err == nil {
		t.Fatalf("token signed with old secret should be rejected")
	}
}

func TestResolveAuthState(t *testing.T) {
	env := setupServiceTest(t)
	user, _, _, err := env.authService.Register("state@example.com", "password123", "x")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	state, err := env.authService.ResolveAuthState(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("resolve auth state failed: %v", err)
	}
	if state.UserID != user.ID || state.Role != user.Role || state.TokenVersion != user.TokenVersion {
		t.Fatalf("auth state mismatch: %+v", state)
	}

	if _, err := env.authService.ResolveAuthState(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user want ErrNotFound got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "profile@example.com", constants.RoleUser, time.Now())

	got, err := env.authService.GetProfile(user.ID)
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("profile id want %d got %d", user.ID, got.ID)
	}
	if _, err := env.authService.GetProfile(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user want ErrNotFound got %v", err)
	}
}
