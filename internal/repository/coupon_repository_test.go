package repository

import (
	"testing"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
)

func TestMarkUsedIfUnused(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewCouponRepository(db)
	coupon := mustCreateCoupon(t, db, 1, constants.CouponTypeWelcome, time.Now().Add(24*time.Hour))

	usedAt := time.Now()
	rows, err := repo.MarkUsedIfUnused(coupon.ID, usedAt)
	if err != nil {
		t.Fatalf("mark used failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows want 1 got %d", rows)
	}

	// 二次核销视为并发冲突，影响行数为 0
	rows, err = repo.MarkUsedIfUnused(coupon.ID, usedAt)
	if err != nil {
		t.Fatalf("mark used failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("double mark rows want 0 got %d", rows)
	}

	got, err := repo.GetByID(coupon.ID)
	if err != nil {
		t.Fatalf("get coupon failed: %v", err)
	}
	if !got.IsUsed || got.UsedAt == nil {
		t.Fatalf("coupon should be used with used_at set: %+v", got)
	}

	if _, err := repo.MarkUsedIfUnused(0, usedAt); err == nil {
		t.Fatalf("zero id should be rejected")
	}
}

func TestMarkUnusedIfUsed(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewCouponRepository(db)
	coupon := mustCreateCoupon(t, db, 1, constants.CouponTypeWelcome, time.Now().Add(24*time.Hour))

	// 未核销状态下回退应无效果
	rows, err := repo.MarkUnusedIfUsed(coupon.ID)
	if err != nil {
		t.Fatalf("mark unused failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("unused coupon rows want 0 got %d", rows)
	}

	if _, err := repo.MarkUsedIfUnused(coupon.ID, time.Now()); err != nil {
		t.Fatalf("mark used failed: %v", err)
	}
	rows, err = repo.MarkUnusedIfUsed(coupon.ID)
	if err != nil {
		t.Fatalf("mark unused failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows want 1 got %d", rows)
	}

	got, err := repo.GetByID(coupon.ID)
	if err != nil {
		t.Fatalf("get coupon failed: %v", err)
	}
	if got.IsUsed || got.UsedAt != nil {
		t.Fatalf("coupon should be back to unused: %+v", got)
	}
}

func TestExistsByUserAndType(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewCouponRepository(db)
	mustCreateCoupon(t, db, 7, constants.CouponTypeWelcome, time.Now().Add(24*time.Hour))

	exists, err := repo.ExistsByUserAndType(7, constants.CouponTypeWelcome)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatalf("want exists true")
	}

	exists, err = repo.ExistsByUserAndType(7, constants.CouponTypeSpecial)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Fatalf("other type want exists false")
	}

	exists, err = repo.ExistsByUserAndType(8, constants.CouponTypeWelcome)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Fatalf("other user want exists false")
	}
}

func TestCouponListByUser(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewCouponRepository(db)

	usable := mustCreateCoupon(t, db, 1, constants.CouponTypeWelcome, time.Now().Add(24*time.Hour))
	used := mustCreateCoupon(t, db, 1, constants.CouponTypeSpecial, time.Now().Add(24*time.Hour))
	mustCreateCoupon(t, db, 1, constants.CouponTypeWelcome, time.Now().Add(-time.Hour))
	mustCreateCoupon(t, db, 2, constants.CouponTypeWelcome, time.Now().Add(24*time.Hour))

	if _, err := repo.MarkUsedIfUnused(used.ID, time.Now()); err != nil {
		t.Fatalf("mark used failed: %v", err)
	}

	coupons, total, err := repo.ListByUser(CouponListFilter{UserID: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(coupons) != 3 {
		t.Fatalf("user total want 3 got %d/%d", total, len(coupons))
	}

	// 可用过滤剔除已核销与过期券
	coupons, total, err = repo.ListByUser(CouponListFilter{UserID: 1, OnlyUsable: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(coupons) != 1 || coupons[0].ID != usable.ID {
		t.Fatalf("usable list want only coupon %d got %+v", usable.ID, coupons)
	}

	_, total, err = repo.ListByUser(CouponListFilter{UserID: 1, Type: constants.CouponTypeSpecial})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("type filter total want 1 got %d", total)
	}
}

func TestCountByType(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewCouponRepository(db)

	mustCreateCoupon(t, db, 1, constants.CouponTypeWelcome, time.Now().Add(24*time.Hour))
	mustCreateCoupon(t, db, 2, constants.CouponTypeWelcome, time.Now().Add(24*time.Hour))
	mustCreateCoupon(t, db, 1, constants.CouponTypeSpecial, time.Now().Add(24*time.Hour))

	counts, err := repo.CountByType()
	if err != nil {
		t.Fatalf("count by type failed: %v", err)
	}
	if counts[constants.CouponTypeWelcome] != 2 || counts[constants.CouponTypeSpecial] != 1 {
		t.Fatalf("counts unexpected: %+v", counts)
	}
}
