package repository

import (
	"errors"

	"github.com/h-h0304/Commerce-Coupon/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByUser(userID uint) ([]models.CartItem, error)
	GetByUserAndProduct(userID, productID uint) (*models.CartItem, error)
	Create(item *models.CartItem) error
	UpdateQuantity(id uint, quantity int) error
	AddQuantity(userID, productID uint, delta int) (int64, error)
	DeleteByUserAndProduct(userID, productID uint) error
	ClearByUser(userID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser 获取用户购物车项
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Where("user_id = ?", userID).Order("updated_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByUserAndProduct 获取购物车中的指定商品项
func (r *GormCartRepository) GetByUserAndProduct(userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create 创建购物车项
func (r *GormCartRepository) Create(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateQuantity 设置购物车项数量
func (r *GormCartRepository) UpdateQuantity(id uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity).Error
}

// AddQuantity 在已有数量上累加（同一商品重复加购时合并数量）
func (r *GormCartRepository) AddQuantity(userID, productID uint, delta int) (int64, error) {
	if delta <= 0 {
		return 0, errors.New("invalid cart quantity delta")
	}
	result := r.db.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByUserAndProduct 删除购物车项
func (r *GormCartRepository) DeleteByUserAndProduct(userID, productID uint) error {
	return r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{}).Error
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
