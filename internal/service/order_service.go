package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/config"
	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/logger"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
	"github.com/h-h0304/Commerce-Coupon/internal/queue"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultOrderNoMaxRetries = 5

// OrderService 订单服务
type OrderService struct {
	cfg           *config.Config
	orderRepo     repository.OrderRepository
	productRepo   *repository.GormProductRepository
	cartRepo      *repository.GormCartRepository
	couponRepo    *repository.GormCouponRepository
	paymentRepo   *repository.GormPaymentRepository
	userRepo      repository.UserRepository
	couponService *CouponService
	queueClient   *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	productRepo *repository.GormProductRepository,
	cartRepo *repository.GormCartRepository,
	couponRepo *repository.GormCouponRepository,
	paymentRepo *repository.GormPaymentRepository,
	userRepo repository.UserRepository,
	couponService *CouponService,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		cfg:           cfg,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		cartRepo:      cartRepo,
		couponRepo:    couponRepo,
		paymentRepo:   paymentRepo,
		userRepo:      userRepo,
		couponService: couponService,
		queueClient:   queueClient,
	}
}

// CreateOrderInput 下单入参
type CreateOrderInput struct {
	CouponID       *uint
	RecipientName  string
	RecipientPhone string
	Address        string
	DetailAddress  string
	ZipCode        string
	DeliveryMemo   string
	Memo           string
}

// CreateOrder 购物车结算下单。
// 库存扣减、优惠券核销、订单与快照写入、清空购物车在同一事务内完成。
func (s *OrderService) CreateOrder(userID uint, input CreateOrderInput) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}

	// VIP 折扣依赖用户角色；角色解析失败不阻断下单，按无折扣处理。
	role := constants.RoleUser
	if user, err := s.userRepo.GetByID(userID); err != nil {
		logger.Warnw("order_resolve_user_role_failed", "user_id", userID, "error", err)
	} else if user != nil {
		role = user.Role
	}

	orderNo, err := s.generateOrderNo()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var created *models.Order

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		couponRepo := s.couponRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		cartItems, err := cartRepo.ListByUser(userID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		original := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(cartItems))
		for _, item := range cartItems {
			product := item.Product
			if product == nil {
				return ErrProductNotFound
			}
			if product.Status != constants.ProductStatusActive {
				return ErrProductNotAvailable
			}

			// 条件扣减：影响行数为 0 即库存不足，并发下单不会超卖。
			affected, err := productRepo.DecrementStockIfAvailable(product.ID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				current, readErr := productRepo.GetByID(product.ID)
				available := 0
				if readErr == nil && current != nil {
					available = current.Stock
				}
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   available,
				}
			}

			lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
			original = original.Add(lineTotal)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:       product.ID,
				ProductName:     product.Name,
				ProductImageURL: product.ImageURL,
				UnitPrice:       product.Price,
				Quantity:        item.Quantity,
				TotalPrice:      models.NewMoneyFromDecimal(lineTotal),
				CreatedAt:       now,
				UpdatedAt:       now,
			})
		}

		originalAmount := models.NewMoneyFromDecimal(original)

		couponDiscount := models.NewMoneyFromInt(0)
		var couponID *uint
		if input.CouponID != nil {
			coupon, err := s.couponService.validateForCheckout(couponRepo, *input.CouponID, userID)
			if err != nil {
				return err
			}
			couponDiscount = calculateCouponDiscount(coupon, originalAmount)

			// 条件核销：同一张券被并发结算时只有一个事务成功。
			affected, err := couponRepo.MarkUsedIfUnused(coupon.ID, now)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrCouponUnusable
			}
			couponID = &coupon.ID
		}

		vipDiscount := calculateVipDiscount(role, originalAmount)

		final := original.Sub(couponDiscount.Decimal).Sub(vipDiscount.Decimal)
		if final.IsNegative() {
			final = decimal.Zero
		}

		order := &models.Order{
			OrderNo:              orderNo,
			UserID:               userID,
			Status:               constants.OrderStatusPending,
			OriginalAmount:       originalAmount,
			CouponDiscountAmount: couponDiscount,
			VipDiscountAmount:    vipDiscount,
			FinalAmount:          models.NewMoneyFromDecimal(final),
			CouponID:             couponID,
			RecipientName:        strings.TrimSpace(input.RecipientName),
			RecipientPhone:       strings.TrimSpace(input.RecipientPhone),
			Address:              strings.TrimSpace(input.Address),
			DetailAddress:        strings.TrimSpace(input.DetailAddress),
			ZipCode:              strings.TrimSpace(input.ZipCode),
			DeliveryMemo:         strings.TrimSpace(input.DeliveryMemo),
			Memo:                 strings.TrimSpace(input.Memo),
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := orderRepo.Create(order, orderItems); err != nil {
			return err
		}

		if err := cartRepo.ClearByUser(userID); err != nil {
			return err
		}

		order.Items = orderItems
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueTimeoutCancel(created.ID)

	logger.Infow("order_created",
		"order_id", created.ID,
		"order_no", created.OrderNo,
		"user_id", userID,
		"final_amount", created.FinalAmount.String(),
	)
	return created, nil
}

// enqueueTimeoutCancel 下单成功后推送支付超时取消任务，失败仅记录日志。
func (s *OrderService) enqueueTimeoutCancel(orderID uint) {
	if s.queueClient == nil {
		return
	}
	expireMinutes := s.cfg.Order.PaymentExpireMinutes
	if expireMinutes <= 0 {
		expireMinutes = 15
	}
	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{
		OrderID: orderID,
	}, time.Duration(expireMinutes)*time.Minute); err != nil {
		logger.Errorw("order_enqueue_timeout_cancel_failed",
			"order_id", orderID,
			"error", err,
		)
	}
}

// GetOrder 获取用户订单详情
func (s *OrderService) GetOrder(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByNo 按订单号获取用户订单详情
func (s *OrderService) GetOrderByNo(userID uint, orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNoAndUser(strings.TrimSpace(orderNo), userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 获取用户订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// AdminListOrders 管理端订单列表
func (s *OrderService) AdminListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// CancelOrder 用户取消订单。
// 仅 pending / paid 状态可取消；补偿动作回补库存并回退优惠券。
func (s *OrderService) CancelOrder(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isOrderCancellable(order.Status) {
		return nil, ErrInvalidOrderState
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.cancelWithCompensation(tx, order, cancellableOrderStatuses(), now)
	})
	if err != nil {
		return nil, err
	}

	order.Status = constants.OrderStatusCancelled
	order.CancelledAt = &now
	logger.Infow("order_cancelled", "order_id", order.ID, "order_no", order.OrderNo, "user_id", userID)
	return order, nil
}

// cancelWithCompensation 订单取消的共用补偿流程。
// 用户取消、支付取消、超时取消共用同一路径，保证三者行为一致。
// 先做条件状态流转再执行补偿：事务外读到的状态可能已经过期，
// 并发取消时只有抢到流转的事务回补库存、回退优惠券、级联取消已完成支付，
// 其余事务拿到 ErrInvalidOrderState，避免重复补偿导致库存翻倍。
func (s *OrderService) cancelWithCompensation(tx *gorm.DB, order *models.Order, from []string, now time.Time) error {
	orderRepo := s.orderRepo.WithTx(tx)
	productRepo := s.productRepo.WithTx(tx)
	couponRepo := s.couponRepo.WithTx(tx)
	paymentRepo := s.paymentRepo.WithTx(tx)

	updates := map[string]interface{}{
		"cancelled_at": now,
		"updated_at":   now,
	}
	affected, err := orderRepo.UpdateStatusIf(order.ID, from, constants.OrderStatusCancelled, updates)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidOrderState
	}

	for _, item := range order.Items {
		if _, err := productRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	if order.CouponID != nil {
		if _, err := couponRepo.MarkUnusedIfUsed(*order.CouponID); err != nil {
			return err
		}
	}

	payment, err := paymentRepo.GetCompletedByOrderID(order.ID)
	if err != nil {
		return err
	}
	if payment != nil {
		paymentUpdates := map[string]interface{}{"updated_at": now}
		if err := paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusCancelled, paymentUpdates); err != nil {
			return err
		}
	}
	return nil
}

// HandlePaymentTimeout 处理支付超时任务：仍处于 pending 的订单自动取消。
// 流转条件只允许 pending，避免取消刚好在窗口期内完成支付的订单；
// 订单已被用户取消或已支付时任务按成功处理。
func (s *OrderService) HandlePaymentTimeout(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil || order.Status != constants.OrderStatusPending {
		return nil
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.cancelWithCompensation(tx, order, []string{constants.OrderStatusPending}, now)
	})
	if errors.Is(err, ErrInvalidOrderState) {
		logger.Infow("order_timeout_cancel_skipped", "order_id", orderID, "order_no", order.OrderNo)
		return nil
	}
	if err != nil {
		logger.Errorw("order_timeout_cancel_failed", "order_id", orderID, "error", err)
		return err
	}
	logger.Infow("order_timeout_cancelled", "order_id", orderID, "order_no", order.OrderNo)
	return nil
}

// AdminUpdateOrderStatus 管理端状态覆盖。
// 仅校验目标状态合法，不走状态机守卫，用于人工纠错。
func (s *OrderService) AdminUpdateOrderStatus(orderID uint, targetStatus string) (*models.Order, error) {
	target := strings.TrimSpace(targetStatus)
	if !isKnownOrderStatus(target) {
		return nil, ErrInvalidOrderState
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == target {
		return order, nil
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	switch target {
	case constants.OrderStatusPaid:
		updates["paid_at"] = now
	case constants.OrderStatusCancelled:
		updates["cancelled_at"] = now
	}
	if err := s.orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
		return nil, err
	}

	logger.Infow("order_status_overridden",
		"order_id", order.ID,
		"from", order.Status,
		"to", target,
	)
	order.Status = target
	return order, nil
}

// markOrderPaid 将 pending 订单置为 paid，由支付完成流程在事务内调用。
// 条件流转保证超时取消与支付完成竞争时不会把已取消订单改写成 paid，
// 流转失败整个支付事务回滚。
func (s *OrderService) markOrderPaid(tx *gorm.DB, order *models.Order, now time.Time) error {
	if !isTransitionAllowed(order.Status, constants.OrderStatusPaid) {
		return ErrInvalidOrderState
	}
	orderRepo := s.orderRepo.WithTx(tx)
	updates := map[string]interface{}{
		"paid_at":    now,
		"updated_at": now,
	}
	affected, err := orderRepo.UpdateStatusIf(order.ID, []string{constants.OrderStatusPending}, constants.OrderStatusPaid, updates)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidOrderState
	}
	return nil
}

// generateOrderNo 生成订单号：ORD + 日期 + 6 位随机数字。
// 有限次冲突重试后回退到 UUID 派生后缀，保证不会无限循环。
func (s *OrderService) generateOrderNo() (string, error) {
	maxRetries := defaultOrderNoMaxRetries
	if s.cfg != nil && s.cfg.Order.OrderNoMaxRetries > 0 {
		maxRetries = s.cfg.Order.OrderNoMaxRetries
	}

	datePart := time.Now().Format("20060102")
	for i := 0; i < maxRetries; i++ {
		candidate := fmt.Sprintf("%s%s%s", constants.OrderNoPrefix, datePart, randNumeric(6))
		exists, err := s.orderRepo.ExistsByOrderNo(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	// 回退：UUID 片段几乎不可能冲突，仍复用唯一索引兜底。
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	candidate := fmt.Sprintf("%s%s%s", constants.OrderNoPrefix, datePart, suffix)
	exists, err := s.orderRepo.ExistsByOrderNo(candidate)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrOrderNoExhausted
	}
	return candidate, nil
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
