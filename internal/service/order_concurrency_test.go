package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"
)

// 并发场景下 sqlite 对写事务加全库锁，把连接池压到单连接
// 可以避免忙等报错，让条件更新语句决定胜负。
func limitToSingleConn(t *testing.T, env *testEnv) {
	t.Helper()
	sqlDB, err := env.db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
}

// 库存为 1 的商品被两个用户同时结算，只允许一单成功
func TestConcurrentCheckoutLastUnit(t *testing.T) {
	env := setupServiceTest(t)
	limitToSingleConn(t, env)

	buyer1 := env.createUser(t, "race-one@example.com", constants.RoleUser, time.Now())
	buyer2 := env.createUser(t, "race-two@example.com", constants.RoleUser, time.Now())
	product := env.createProduct(t, "限量商品", 50000, 1)
	env.addToCart(t, buyer1.ID, product.ID, 1)
	env.addToCart(t, buyer2.ID, product.ID, 1)

	input := CreateOrderInput{
		RecipientName:  "tester",
		RecipientPhone: "010-0000-0000",
		Address:        "somewhere",
	}

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i, userID := range []uint{buyer1.ID, buyer2.ID} {
		wg.Add(1)
		go func(slot int, uid uint) {
			defer wg.Done()
			_, results[slot] = env.orderService.CreateOrder(uid, input)
		}(i, userID)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("loser want ErrInsufficientStock got %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("exactly one checkout must win, got %d", successes)
	}

	reloaded, err := env.productRepo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 0 {
		t.Fatalf("stock want 0 got %d", reloaded.Stock)
	}
	if reloaded.SalesCount != 1 {
		t.Fatalf("sales count want 1 got %d", reloaded.SalesCount)
	}
}

// 同一张优惠券被并发结算，只允许核销一次
func TestConcurrentCheckoutSameCoupon(t *testing.T) {
	env := setupServiceTest(t)
	limitToSingleConn(t, env)

	user := env.createUser(t, "coupon-race@example.com", constants.RoleUser, time.Now())
	product := env.createProduct(t, "测试商品", 30000, 10)
	coupon := env.createCoupon(t, user.ID, 5000, time.Now().Add(24*time.Hour))
	env.addToCart(t, user.ID, product.ID, 1)

	input := CreateOrderInput{
		CouponID:       &coupon.ID,
		RecipientName:  "tester",
		RecipientPhone: "010-0000-0000",
		Address:        "somewhere",
	}

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, results[slot] = env.orderService.CreateOrder(user.ID, input)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		// 输家要么看到券已核销，要么看到购物车已被赢家清空
		if !errors.Is(err, ErrCouponUnusable) && !errors.Is(err, ErrCartEmpty) {
			t.Fatalf("loser got unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("exactly one checkout must win, got %d", successes)
	}

	reloadedCoupon, err := env.couponRepo.GetByID(coupon.ID)
	if err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if !reloadedCoupon.IsUsed {
		t.Fatalf("coupon must be used by the winning checkout")
	}

	orders, total, err := env.orderRepo.ListByUser(repository.OrderListFilter{UserID: user.ID, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 1 || len(orders) != 1 {
		t.Fatalf("exactly one order expected, got %d", total)
	}
	if orders[0].CouponID == nil || *orders[0].CouponID != coupon.ID {
		t.Fatalf("winning order must carry the coupon")
	}
}

// 用户取消与超时取消并发竞争同一订单，补偿只执行一次
func TestConcurrentCancelAndTimeoutCompensateOnce(t *testing.T) {
	env := setupServiceTest(t)
	limitToSingleConn(t, env)

	user := env.createUser(t, "cancel-race@example.com", constants.RoleUser, time.Now())
	product := env.createProduct(t, "测试商品", 10000, 10)
	env.addToCart(t, user.ID, product.ID, 2)

	order, err := env.orderService.CreateOrder(user.ID, CreateOrderInput{
		RecipientName:  "tester",
		RecipientPhone: "010-0000-0000",
		Address:        "somewhere",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	var wg sync.WaitGroup
	var cancelErr, timeoutErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, cancelErr = env.orderService.CancelOrder(user.ID, order.ID)
	}()
	go func() {
		defer wg.Done()
		timeoutErr = env.orderService.HandlePaymentTimeout(order.ID)
	}()
	wg.Wait()

	// 超时任务在两种结局下都按成功处理；用户取消可能输给超时任务
	if timeoutErr != nil {
		t.Fatalf("timeout cancel should never fail here: %v", timeoutErr)
	}
	if cancelErr != nil && !errors.Is(cancelErr, ErrInvalidOrderState) {
		t.Fatalf("user cancel got unexpected error: %v", cancelErr)
	}

	reloaded, err := env.orderRepo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("order want cancelled got %s", reloaded.Status)
	}

	reloadedProduct, err := env.productRepo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloadedProduct.Stock != 10 {
		t.Fatalf("stock must be restored exactly once, want 10 got %d", reloadedProduct.Stock)
	}
	if reloadedProduct.SalesCount != 0 {
		t.Fatalf("sales count want 0 got %d", reloadedProduct.SalesCount)
	}
}
