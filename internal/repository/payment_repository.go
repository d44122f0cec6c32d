package repository

import (
	"errors"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository 支付数据访问接口
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByKey(paymentKey string) (*models.Payment, error)
	GetByKeyAndUser(paymentKey string, userID uint) (*models.Payment, error)
	GetCompletedByOrderID(orderID uint) (*models.Payment, error)
	ExistsByKey(paymentKey string) (bool, error)
	List(filter PaymentListFilter) ([]models.Payment, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create 创建支付记录
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByKey 根据支付键获取支付记录
func (r *GormPaymentRepository) GetByKey(paymentKey string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Where("payment_key = ?", paymentKey).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByKeyAndUser 根据支付键获取用户自己的支付记录
func (r *GormPaymentRepository) GetByKeyAndUser(paymentKey string, userID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Where("payment_key = ? AND user_id = ?", paymentKey, userID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetCompletedByOrderID 获取订单已完成的支付记录
func (r *GormPaymentRepository) GetCompletedByOrderID(orderID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Where("order_id = ? AND status = ?", orderID, constants.PaymentStatusCompleted).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// ExistsByKey 判断支付键是否已存在
func (r *GormPaymentRepository) ExistsByKey(paymentKey string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Payment{}).Where("payment_key = ?", paymentKey).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 获取支付列表
func (r *GormPaymentRepository) List(filter PaymentListFilter) ([]models.Payment, int64, error) {
	var payments []models.Payment
	query := r.db.Model(&models.Payment{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// UpdateStatus 更新支付状态
func (r *GormPaymentRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Payment{}).Where("id = ?", id).Updates(updates).Error
}
