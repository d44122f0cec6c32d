package repository

import (
	"errors"
	"strings"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	DecrementStockIfAvailable(productID uint, quantity int) (int64, error)
	RestoreStock(productID uint, quantity int) (int64, error)
	CountActiveByCategory(categoryID uint) (int64, error)
	IncrementViewCount(productID uint) error
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List 获取商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product
	query := r.db.Model(&models.Product{})

	if keyword := strings.TrimSpace(filter.Search); keyword != "" {
		like := "%" + keyword + "%"
		condition, argCount := buildKeywordLikeCondition(r.db, []string{"name", "description"})
		if condition != "" {
			query = query.Where(condition, repeatLikeArgs(like, argCount)...)
		}
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.OnlyActive {
		query = query.Where("status = ?", constants.ProductStatusActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// DecrementStockIfAvailable 条件扣减库存并累加销量。
// 库存不足时影响行数为 0，由调用方判定失败，避免并发下单超卖。
func (r *GormProductRepository) DecrementStockIfAvailable(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Updates(map[string]interface{}{
			"stock":       gorm.Expr("stock - ?", quantity),
			"sales_count": gorm.Expr("sales_count + ?", quantity),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// RestoreStock 回补库存并扣回销量（订单取消补偿动作）。
func (r *GormProductRepository) RestoreStock(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock restore params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock":       gorm.Expr("stock + ?", quantity),
			"sales_count": gorm.Expr("CASE WHEN sales_count >= ? THEN sales_count - ? ELSE 0 END", quantity, quantity),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountActiveByCategory 统计分类下在售商品数
func (r *GormProductRepository) CountActiveByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("category_id = ? AND status = ?", categoryID, constants.ProductStatusActive).
		Count(&count).Error
	return count, err
}

// IncrementViewCount 累加浏览次数
func (r *GormProductRepository) IncrementViewCount(productID uint) error {
	return r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
