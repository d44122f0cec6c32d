package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/config"
	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/logger"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultPaymentKeyMaxRetries = 5

// PaymentService 支付服务（模拟支付网关）
type PaymentService struct {
	cfg          *config.Config
	paymentRepo  *repository.GormPaymentRepository
	orderRepo    repository.OrderRepository
	orderService *OrderService
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	cfg *config.Config,
	paymentRepo *repository.GormPaymentRepository,
	orderRepo repository.OrderRepository,
	orderService *OrderService,
) *PaymentService {
	return &PaymentService{
		cfg:          cfg,
		paymentRepo:  paymentRepo,
		orderRepo:    orderRepo,
		orderService: orderService,
	}
}

// PreparePayment 创建支付单。
// 订单必须处于 pending 且不存在已完成支付，金额必须与订单实付金额一致。
func (s *PaymentService) PreparePayment(userID, orderID uint, amount models.Money, method string) (*models.Payment, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrInvalidOrderState
	}

	completed, err := s.paymentRepo.GetCompletedByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if completed != nil {
		return nil, ErrPaymentAlreadyCompleted
	}

	if !amount.Decimal.Equal(order.FinalAmount.Decimal) {
		return nil, ErrAmountMismatch
	}

	paymentKey, err := s.generatePaymentKey(order.ID)
	if err != nil {
		return nil, err
	}

	resolvedMethod := strings.TrimSpace(method)
	if resolvedMethod == "" {
		resolvedMethod = constants.PaymentMethodCard
	}

	now := time.Now()
	payment := &models.Payment{
		PaymentKey: paymentKey,
		OrderID:    order.ID,
		UserID:     userID,
		Amount:     amount,
		Method:     resolvedMethod,
		Status:     constants.PaymentStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	logger.Infow("payment_prepared",
		"payment_key", payment.PaymentKey,
		"order_id", order.ID,
		"amount", amount.String(),
	)
	return payment, nil
}

// CompletePayment 完成支付。
// 模拟网关批准：生成流水号、掩码卡号，支付置为 completed，
// 订单在同一事务内由 pending 转为 paid。
func (s *PaymentService) CompletePayment(userID uint, paymentKey string, amount models.Money, cardNumber string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByKeyAndUser(strings.TrimSpace(paymentKey), userID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != constants.PaymentStatusPending {
		return nil, ErrInvalidPaymentState
	}
	if !amount.Decimal.Equal(payment.Amount.Decimal) {
		return nil, ErrAmountMismatch
	}

	order, err := s.orderRepo.GetByID(payment.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrInvalidOrderState
	}

	now := time.Now()
	pgTransactionID := fmt.Sprintf("PG%s", strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16]))
	cardInfo := maskCardNumber(cardNumber)

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		updates := map[string]interface{}{
			"pg_transaction_id": pgTransactionID,
			"card_info":         cardInfo,
			"approved_at":       now,
			"updated_at":        now,
		}
		if err := paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusCompleted, updates); err != nil {
			return err
		}
		return s.orderService.markOrderPaid(tx, order, now)
	})
	if err != nil {
		return nil, err
	}

	payment.Status = constants.PaymentStatusCompleted
	payment.PgTransactionID = pgTransactionID
	payment.CardInfo = cardInfo
	payment.ApprovedAt = &now

	logger.Infow("payment_completed",
		"payment_key", payment.PaymentKey,
		"order_id", payment.OrderID,
		"pg_transaction_id", pgTransactionID,
	)
	return payment, nil
}

// CancelPayment 取消已完成的支付。
// 订单走与用户取消一致的补偿流程（回补库存、回退优惠券）。
func (s *PaymentService) CancelPayment(userID uint, paymentKey string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByKeyAndUser(strings.TrimSpace(paymentKey), userID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != constants.PaymentStatusCompleted {
		return nil, ErrInvalidPaymentState
	}

	order, err := s.orderRepo.GetByID(payment.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		updates := map[string]interface{}{"updated_at": now}
		if err := paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusCancelled, updates); err != nil {
			return err
		}
		if order.Status == constants.OrderStatusCancelled {
			return nil
		}
		cancelErr := s.orderService.cancelWithCompensation(tx, order, cancellableOrderStatuses(), now)
		if errors.Is(cancelErr, ErrInvalidOrderState) {
			// 条件流转落空说明订单状态已被并发事务改写。
			// 已取消的订单补偿早已完成，支付取消照常生效；其余状态回滚整个事务。
			current, readErr := s.orderRepo.WithTx(tx).GetByID(order.ID)
			if readErr != nil {
				return readErr
			}
			if current != nil && current.Status == constants.OrderStatusCancelled {
				return nil
			}
			return cancelErr
		}
		return cancelErr
	})
	if err != nil {
		return nil, err
	}

	payment.Status = constants.PaymentStatusCancelled
	logger.Infow("payment_cancelled",
		"payment_key", payment.PaymentKey,
		"order_id", payment.OrderID,
	)
	return payment, nil
}

// GetPayment 获取用户自己的支付详情
func (s *PaymentService) GetPayment(userID uint, paymentKey string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByKeyAndUser(strings.TrimSpace(paymentKey), userID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// AdminListPayments 管理端支付列表
func (s *PaymentService) AdminListPayments(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(filter)
}

// generatePaymentKey 生成支付键：PAY + 时间戳 + 订单ID。
// 有限次冲突重试后回退到 UUID 派生后缀。
func (s *PaymentService) generatePaymentKey(orderID uint) (string, error) {
	maxRetries := defaultPaymentKeyMaxRetries
	if s.cfg != nil && s.cfg.Payment.KeyMaxRetries > 0 {
		maxRetries = s.cfg.Payment.KeyMaxRetries
	}

	for i := 0; i < maxRetries; i++ {
		candidate := fmt.Sprintf("%s_%d_%d", constants.PaymentKeyPrefix, time.Now().UnixNano(), orderID)
		exists, err := s.paymentRepo.ExistsByKey(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	candidate := fmt.Sprintf("%s_%s_%d", constants.PaymentKeyPrefix, strings.ReplaceAll(uuid.NewString(), "-", "")[:12], orderID)
	exists, err := s.paymentRepo.ExistsByKey(candidate)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrOrderNoExhausted
	}
	return candidate, nil
}

// maskCardNumber 掩码卡号，仅保留后四位。
func maskCardNumber(cardNumber string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, cardNumber)
	if len(digits) < 4 {
		return "****"
	}
	return "****-****-****-" + digits[len(digits)-4:]
}
