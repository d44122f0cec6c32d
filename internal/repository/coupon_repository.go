package repository

import (
	"errors"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/models"

	"gorm.io/gorm"
)

// CouponRepository 优惠券数据访问接口
type CouponRepository interface {
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	ListByUser(filter CouponListFilter) ([]models.Coupon, int64, error)
	Create(coupon *models.Coupon) error
	ExistsByUserAndType(userID uint, couponType string) (bool, error)
	MarkUsedIfUnused(id uint, usedAt time.Time) (int64, error)
	MarkUnusedIfUsed(id uint) (int64, error)
	CountByType() (map[string]int64, error)
	WithTx(tx *gorm.DB) *GormCouponRepository
}

// GormCouponRepository GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRepository) WithTx(tx *gorm.DB) *GormCouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// GetByID 根据 ID 获取优惠券
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByCode 根据优惠码获取优惠券
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// ListByUser 获取用户优惠券列表
func (r *GormCouponRepository) ListByUser(filter CouponListFilter) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	query := r.db.Model(&models.Coupon{}).Where("user_id = ?", filter.UserID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.OnlyUsable {
		query = query.Where("is_used = ? AND expires_at > ?", false, time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// Create 创建优惠券
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// ExistsByUserAndType 判断用户是否已持有指定类型的优惠券（幂等发放依据）
func (r *GormCouponRepository) ExistsByUserAndType(userID uint, couponType string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Coupon{}).
		Where("user_id = ? AND type = ?", userID, couponType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkUsedIfUnused 条件核销优惠券。
// 仅在 is_used 为 false 时生效，影响行数为 0 表示已被并发核销。
func (r *GormCouponRepository) MarkUsedIfUnused(id uint, usedAt time.Time) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid coupon id")
	}
	result := r.db.Model(&models.Coupon{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": usedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkUnusedIfUsed 条件回退优惠券（订单取消补偿动作）。
func (r *GormCouponRepository) MarkUnusedIfUsed(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid coupon id")
	}
	result := r.db.Model(&models.Coupon{}).
		Where("id = ? AND is_used = ?", id, true).
		Updates(map[string]interface{}{
			"is_used": false,
			"used_at": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountByType 按类型统计优惠券数量
func (r *GormCouponRepository) CountByType() (map[string]int64, error) {
	var rows []struct {
		Type  string
		Count int64
	}
	if err := r.db.Model(&models.Coupon{}).
		Select("type, count(*) as count").
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
