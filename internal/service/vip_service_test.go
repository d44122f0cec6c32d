package service

import (
	"errors"
	"testing"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
)

func TestMembershipMonths(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		since time.Time
		want  int
	}{
		{name: "exactly a year", since: time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), want: 12},
		{name: "one day short of a year", since: time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC), want: 11},
		{name: "thirteen months", since: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), want: 13},
		{name: "same day", since: now, want: 0},
		{name: "future date", since: now.AddDate(0, 1, 0), want: 0},
		{name: "zero value", since: time.Time{}, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := membershipMonths(tc.since, now); got != tc.want {
				t.Fatalf("months want %d got %d", tc.want, got)
			}
		})
	}
}

func TestGetVipStatus(t *testing.T) {
	env := setupServiceTest(t)
	eligible := env.createUser(t, "old@example.com", constants.RoleUser, time.Now().AddDate(0, -13, 0))
	fresh := env.createUser(t, "fresh@example.com", constants.RoleUser, time.Now().AddDate(0, -2, 0))
	vip := env.createUser(t, "vip@example.com", constants.RoleVip, time.Now().AddDate(-2, 0, 0))

	status, err := env.vipService.GetVipStatus(eligible.ID)
	if err != nil {
		t.Fatalf("get vip status failed: %v", err)
	}
	if !status.Eligible || status.IsVip {
		t.Fatalf("long-term user should be eligible but not vip yet: %+v", status)
	}
	if status.RequiredMonths != vipEligibilityMonths {
		t.Fatalf("required months want %d got %d", vipEligibilityMonths, status.RequiredMonths)
	}
	if status.DiscountRate != 5 || status.DiscountCap != 5000 {
		t.Fatalf("vip benefit preview unexpected: %+v", status)
	}

	status, err = env.vipService.GetVipStatus(fresh.ID)
	if err != nil {
		t.Fatalf("get vip status failed: %v", err)
	}
	if status.Eligible {
		t.Fatalf("fresh user should not be eligible")
	}

	status, err = env.vipService.GetVipStatus(vip.ID)
	if err != nil {
		t.Fatalf("get vip status failed: %v", err)
	}
	if !status.IsVip || status.Eligible {
		t.Fatalf("existing vip should not be promotable again: %+v", status)
	}

	if _, err := env.vipService.GetVipStatus(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user want ErrNotFound got %v", err)
	}
}

func TestPromoteToVip(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "promote@example.com", constants.RoleUser, time.Now().AddDate(0, -13, 0))
	beforeVersion := user.TokenVersion

	promoted, err := env.vipService.PromoteToVip(user.ID)
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if promoted.Role != constants.RoleVip {
		t.Fatalf("role want VIP got %s", promoted.Role)
	}

	reloaded, err := env.userRepo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.Role != constants.RoleVip {
		t.Fatalf("persisted role want VIP got %s", reloaded.Role)
	}
	// 角色变更后 Token 版本提升，旧 Token 失效
	if reloaded.TokenVersion != beforeVersion+1 {
		t.Fatalf("token version want %d got %d", beforeVersion+1, reloaded.TokenVersion)
	}

	// 晋升同时发放 VIP 专属券
	var coupons []models.Coupon
	if err := env.db.Where("user_id = ? AND type = ?", user.ID, constants.CouponTypeSpecial).Find(&coupons).Error; err != nil {
		t.Fatalf("load coupons failed: %v", err)
	}
	if len(coupons) != 1 {
		t.Fatalf("special coupon count want 1 got %d", len(coupons))
	}
	if !coupons[0].DiscountAmount.Decimal.Equal(models.NewMoneyFromInt(vipSpecialCouponAmount).Decimal) {
		t.Fatalf("special coupon amount want %d got %s", int64(vipSpecialCouponAmount), coupons[0].DiscountAmount.String())
	}

	// 重复晋升被拒绝
	if _, err := env.vipService.PromoteToVip(user.ID); !errors.Is(err, ErrVipIneligible) {
		t.Fatalf("double promote want ErrVipIneligible got %v", err)
	}
}

func TestPromoteToVipIneligible(t *testing.T) {
	env := setupServiceTest(t)
	fresh := env.createUser(t, "fresh@example.com", constants.RoleUser, time.Now().AddDate(0, -6, 0))
	admin := env.createUser(t, "admin@example.com", constants.RoleAdmin, time.Now().AddDate(-3, 0, 0))

	if _, err := env.vipService.PromoteToVip(fresh.ID); !errors.Is(err, ErrVipIneligible) {
		t.Fatalf("short membership want ErrVipIneligible got %v", err)
	}
	if _, err := env.vipService.PromoteToVip(admin.ID); !errors.Is(err, ErrVipIneligible) {
		t.Fatalf("admin promote want ErrVipIneligible got %v", err)
	}
	if _, err := env.vipService.PromoteToVip(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user want ErrNotFound got %v", err)
	}
}

func TestAdminVipStatistics(t *testing.T) {
	env := setupServiceTest(t)
	env.createUser(t, "u1@example.com", constants.RoleUser, time.Now())
	env.createUser(t, "u2@example.com", constants.RoleUser, time.Now())
	env.createUser(t, "v1@example.com", constants.RoleVip, time.Now())
	env.createUser(t, "a1@example.com", constants.RoleAdmin, time.Now())

	stats, err := env.vipService.AdminVipStatistics()
	if err != nil {
		t.Fatalf("vip statistics failed: %v", err)
	}
	if stats.TotalUsers != 4 {
		t.Fatalf("total users want 4 got %d", stats.TotalUsers)
	}
	if stats.VipUsers != 1 {
		t.Fatalf("vip users want 1 got %d", stats.VipUsers)
	}
	if stats.AdminUsers != 1 {
		t.Fatalf("admin users want 1 got %d", stats.AdminUsers)
	}
}
