package service

import (
	"strings"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/logger"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo *repository.GormCouponRepository
	userRepo   repository.UserRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo *repository.GormCouponRepository, userRepo repository.UserRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		userRepo:   userRepo,
	}
}

// IssueWelcomeCoupon 发放欢迎券。
// 依据用户当前角色查表确定金额与有效期，同用户重复发放为空操作（幂等）。
func (s *CouponService) IssueWelcomeCoupon(tx *gorm.DB, user *models.User) (*models.Coupon, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrNotFound
	}
	couponRepo := s.couponRepo.WithTx(tx)

	exists, err := couponRepo.ExistsByUserAndType(user.ID, constants.CouponTypeWelcome)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	policy := resolveTierPolicy(user.Role)
	now := time.Now()
	coupon := &models.Coupon{
		Code:           generateCouponCode(constants.CouponTypeWelcome),
		UserID:         user.ID,
		Type:           constants.CouponTypeWelcome,
		DiscountType:   constants.CouponDiscountFixed,
		DiscountAmount: models.NewMoneyFromInt(policy.WelcomeAmount),
		ExpiresAt:      now.AddDate(0, 0, policy.WelcomeValidityDays),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := couponRepo.Create(coupon); err != nil {
		return nil, err
	}

	logger.Infow("welcome_coupon_issued",
		"user_id", user.ID,
		"coupon_id", coupon.ID,
		"amount", coupon.DiscountAmount.String(),
	)
	return coupon, nil
}

// IssueVipSpecialCoupon 发放 VIP 晋升专属券，要求目标用户为 VIP/ADMIN。
func (s *CouponService) IssueVipSpecialCoupon(tx *gorm.DB, user *models.User) (*models.Coupon, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrNotFound
	}
	if !isVipRole(user.Role) {
		return nil, ErrForbidden
	}

	now := time.Now()
	coupon := &models.Coupon{
		Code:           generateCouponCode(constants.CouponTypeSpecial),
		UserID:         user.ID,
		Type:           constants.CouponTypeSpecial,
		DiscountType:   constants.CouponDiscountFixed,
		DiscountAmount: models.NewMoneyFromInt(vipSpecialCouponAmount),
		ExpiresAt:      now.AddDate(0, 0, vipSpecialCouponValidityDays),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.couponRepo.WithTx(tx).Create(coupon); err != nil {
		return nil, err
	}

	logger.Infow("vip_special_coupon_issued", "user_id", user.ID, "coupon_id", coupon.ID)
	return coupon, nil
}

// IssueBirthdayCoupon 发放生日券（管理端触发），仅 VIP/ADMIN 用户可获得。
func (s *CouponService) IssueBirthdayCoupon(targetUserID uint) (*models.Coupon, error) {
	user, err := s.userRepo.GetByID(targetUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if !isVipRole(user.Role) {
		return nil, ErrForbidden
	}

	now := time.Now()
	coupon := &models.Coupon{
		Code:           generateCouponCode(constants.CouponTypeSpecial),
		UserID:         user.ID,
		Type:           constants.CouponTypeSpecial,
		DiscountType:   constants.CouponDiscountFixed,
		DiscountAmount: models.NewMoneyFromInt(birthdayCouponAmount),
		ExpiresAt:      now.AddDate(0, 0, birthdayCouponValidityDays),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}

	logger.Infow("birthday_coupon_issued", "user_id", user.ID, "coupon_id", coupon.ID)
	return coupon, nil
}

// ListCoupons 获取用户优惠券列表
func (s *CouponService) ListCoupons(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.ListByUser(filter)
}

// GetCoupon 获取用户自己的优惠券详情
func (s *CouponService) GetCoupon(userID, couponID uint) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if coupon.UserID != userID {
		return nil, ErrForbidden
	}
	return coupon, nil
}

// IsCouponUsable 校验优惠券是否可用。
// 券不存在返回 ErrCouponNotFound；其余校验失败返回 false 而不是错误。
func (s *CouponService) IsCouponUsable(userID, couponID uint) (bool, error) {
	coupon, err := s.couponRepo.GetByID(couponID)
	if err != nil {
		return false, err
	}
	if coupon == nil {
		return false, ErrCouponNotFound
	}
	return isCouponUsableBy(coupon, userID, time.Now()), nil
}

// validateForCheckout 结算路径的优惠券校验，失败返回硬错误。
func (s *CouponService) validateForCheckout(couponRepo *repository.GormCouponRepository, couponID, userID uint) (*models.Coupon, error) {
	coupon, err := couponRepo.GetByID(couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if !isCouponUsableBy(coupon, userID, time.Now()) {
		return nil, ErrCouponUnusable
	}
	return coupon, nil
}

// AdminCouponStatistics 管理端优惠券统计
func (s *CouponService) AdminCouponStatistics() (map[string]int64, error) {
	return s.couponRepo.CountByType()
}

// isCouponUsableBy 可用 = 归属匹配 && 未使用 && 未过期。
func isCouponUsableBy(coupon *models.Coupon, userID uint, now time.Time) bool {
	if coupon == nil {
		return false
	}
	if coupon.UserID != userID {
		return false
	}
	if coupon.IsUsed {
		return false
	}
	return coupon.ExpiresAt.After(now)
}

// calculateCouponDiscount 计算优惠券折扣。
// fixed 直接取金额；percent 按原价比例并受 MaxDiscount 限制。
// 折扣最终不超过原价。
func calculateCouponDiscount(coupon *models.Coupon, originalAmount models.Money) models.Money {
	if coupon == nil {
		return models.NewMoneyFromInt(0)
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case constants.CouponDiscountPercent:
		if coupon.DiscountPercent <= 0 {
			return models.NewMoneyFromInt(0)
		}
		discount = originalAmount.Decimal.
			Mul(decimal.NewFromInt(int64(coupon.DiscountPercent))).
			Div(decimal.NewFromInt(100))
		if coupon.MaxDiscount.Decimal.IsPositive() && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
	default:
		discount = coupon.DiscountAmount.Decimal
	}

	if discount.GreaterThan(originalAmount.Decimal) {
		discount = originalAmount.Decimal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return models.NewMoneyFromDecimal(discount)
}

func generateCouponCode(couponType string) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return couponType + "-" + fragment
}
