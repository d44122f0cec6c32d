package service

import (
	"errors"
	"testing"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
)

func TestIssueWelcomeCouponByTier(t *testing.T) {
	env := setupServiceTest(t)

	cases := []struct {
		name       string
		role       string
		wantAmount int64
		wantDays   int
	}{
		{name: "user tier", role: constants.RoleUser, wantAmount: 5000, wantDays: 30},
		{name: "vip tier", role: constants.RoleVip, wantAmount: 10000, wantDays: 60},
		{name: "admin tier", role: constants.RoleAdmin, wantAmount: 15000, wantDays: 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := env.createUser(t, tc.name+"@example.com", tc.role, time.Now())
			coupon, err := env.couponService.IssueWelcomeCoupon(env.db, user)
			if err != nil {
				t.Fatalf("issue welcome coupon failed: %v", err)
			}
			if coupon == nil {
				t.Fatalf("expected coupon issued")
			}
			if !coupon.DiscountAmount.Decimal.Equal(models.NewMoneyFromInt(tc.wantAmount).Decimal) {
				t.Fatalf("amount want %d got %s", tc.wantAmount, coupon.DiscountAmount.String())
			}
			wantExpire := time.Now().AddDate(0, 0, tc.wantDays)
			if diff := coupon.ExpiresAt.Sub(wantExpire); diff > time.Minute || diff < -time.Minute {
				t.Fatalf("expires_at want about %v got %v", wantExpire, coupon.ExpiresAt)
			}
		})
	}
}

func TestIssueWelcomeCouponIdempotent(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "repeat@example.com", constants.RoleUser, time.Now())

	first, err := env.couponService.IssueWelcomeCoupon(env.db, user)
	if err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	if first == nil {
		t.Fatalf("first issue should create a coupon")
	}

	second, err := env.couponService.IssueWelcomeCoupon(env.db, user)
	if err != nil {
		t.Fatalf("second issue failed: %v", err)
	}
	if second != nil {
		t.Fatalf("second issue should be a no-op, got coupon %d", second.ID)
	}

	var count int64
	if err := env.db.Model(&models.Coupon{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count coupons failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("coupon count want 1 got %d", count)
	}
}

func TestIssueBirthdayCouponRequiresVip(t *testing.T) {
	env := setupServiceTest(t)
	plain := env.createUser(t, "plain@example.com", constants.RoleUser, time.Now())
	vip := env.createUser(t, "vip@example.com", constants.RoleVip, time.Now())

	if _, err := env.couponService.IssueBirthdayCoupon(plain.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("plain user want ErrForbidden got %v", err)
	}
	if _, err := env.couponService.IssueBirthdayCoupon(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user want ErrNotFound got %v", err)
	}

	coupon, err := env.couponService.IssueBirthdayCoupon(vip.ID)
	if err != nil {
		t.Fatalf("vip birthday coupon failed: %v", err)
	}
	if !coupon.DiscountAmount.Decimal.Equal(models.NewMoneyFromInt(birthdayCouponAmount).Decimal) {
		t.Fatalf("birthday amount want %d got %s", int64(birthdayCouponAmount), coupon.DiscountAmount.String())
	}
	if coupon.Type != constants.CouponTypeSpecial {
		t.Fatalf("birthday coupon type want SPECIAL got %s", coupon.Type)
	}
}

func TestIsCouponUsable(t *testing.T) {
	env := setupServiceTest(t)
	owner := env.createUser(t, "owner@example.com", constants.RoleUser, time.Now())
	other := env.createUser(t, "other@example.com", constants.RoleUser, time.Now())

	valid := env.createCoupon(t, owner.ID, 5000, time.Now().Add(24*time.Hour))
	expired := env.createCoupon(t, owner.ID, 5000, time.Now().Add(-time.Hour))

	usable, err := env.couponService.IsCouponUsable(owner.ID, valid.ID)
	if err != nil || !usable {
		t.Fatalf("valid coupon want usable, got usable=%v err=%v", usable, err)
	}

	usable, err = env.couponService.IsCouponUsable(other.ID, valid.ID)
	if err != nil || usable {
		t.Fatalf("other user's coupon should not be usable, got usable=%v err=%v", usable, err)
	}

	usable, err = env.couponService.IsCouponUsable(owner.ID, expired.ID)
	if err != nil || usable {
		t.Fatalf("expired coupon should not be usable, got usable=%v err=%v", usable, err)
	}

	if _, err := env.couponService.IsCouponUsable(owner.ID, 9999); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("missing coupon want ErrCouponNotFound got %v", err)
	}

	if _, err := env.couponRepo.MarkUsedIfUnused(valid.ID, time.Now()); err != nil {
		t.Fatalf("mark used failed: %v", err)
	}
	usable, err = env.couponService.IsCouponUsable(owner.ID, valid.ID)
	if err != nil || usable {
		t.Fatalf("used coupon should not be usable, got usable=%v err=%v", usable, err)
	}
}

func TestGetCouponOwnership(t *testing.T) {
	env := setupServiceTest(t)
	owner := env.createUser(t, "owner@example.com", constants.RoleUser, time.Now())
	other := env.createUser(t, "other@example.com", constants.RoleUser, time.Now())
	coupon := env.createCoupon(t, owner.ID, 5000, time.Now().Add(24*time.Hour))

	got, err := env.couponService.GetCoupon(owner.ID, coupon.ID)
	if err != nil {
		t.Fatalf("get own coupon failed: %v", err)
	}
	if got.ID != coupon.ID {
		t.Fatalf("coupon id want %d got %d", coupon.ID, got.ID)
	}

	if _, err := env.couponService.GetCoupon(other.ID, coupon.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other user's read want ErrForbidden got %v", err)
	}
}

func TestCalculateCouponDiscount(t *testing.T) {
	original := models.NewMoneyFromInt(50000)

	fixed := &models.Coupon{
		DiscountType:   constants.CouponDiscountFixed,
		DiscountAmount: models.NewMoneyFromInt(5000),
	}
	if got := calculateCouponDiscount(fixed, original); !got.Decimal.Equal(models.NewMoneyFromInt(5000).Decimal) {
		t.Fatalf("fixed discount want 5000 got %s", got.String())
	}

	// 固定金额大于原价时折扣封顶到原价
	huge := &models.Coupon{
		DiscountType:   constants.CouponDiscountFixed,
		DiscountAmount: models.NewMoneyFromInt(99999999),
	}
	if got := calculateCouponDiscount(huge, original); !got.Decimal.Equal(original.Decimal) {
		t.Fatalf("oversized discount should clamp to original, got %s", got.String())
	}

	percent := &models.Coupon{
		DiscountType:    constants.CouponDiscountPercent,
		DiscountPercent: 10,
	}
	if got := calculateCouponDiscount(percent, original); !got.Decimal.Equal(models.NewMoneyFromInt(5000).Decimal) {
		t.Fatalf("percent discount want 5000 got %s", got.String())
	}

	percentCapped := &models.Coupon{
		DiscountType:    constants.CouponDiscountPercent,
		DiscountPercent: 10,
		MaxDiscount:     models.NewMoneyFromInt(3000),
	}
	if got := calculateCouponDiscount(percentCapped, original); !got.Decimal.Equal(models.NewMoneyFromInt(3000).Decimal) {
		t.Fatalf("capped percent discount want 3000 got %s", got.String())
	}

	zeroPercent := &models.Coupon{DiscountType: constants.CouponDiscountPercent}
	if got := calculateCouponDiscount(zeroPercent, original); !got.Decimal.IsZero() {
		t.Fatalf("zero percent discount want 0 got %s", got.String())
	}

	if got := calculateCouponDiscount(nil, original); !got.Decimal.IsZero() {
		t.Fatalf("nil coupon discount want 0 got %s", got.String())
	}
}
