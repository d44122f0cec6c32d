package service

import (
	"context"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/cache"
	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/logger"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"

	"gorm.io/gorm"
)

// vipEligibilityMonths VIP 晋升要求的最短入会月数
const vipEligibilityMonths = 12

// VipStatus VIP 资格与权益信息
type VipStatus struct {
	Role             string `json:"role"`
	IsVip            bool   `json:"is_vip"`
	Eligible         bool   `json:"eligible"`
	MembershipMonths int    `json:"membership_months"`
	RequiredMonths   int    `json:"required_months"`
	DiscountRate     int64  `json:"discount_rate"`
	DiscountCap      int64  `json:"discount_cap"`
}

// VipStatistics 管理端 VIP 统计
type VipStatistics struct {
	TotalUsers       int64         `json:"total_users"`
	VipUsers         int64         `json:"vip_users"`
	AdminUsers       int64         `json:"admin_users"`
	RecentPromotions []models.User `json:"recent_promotions"`
}

// VipService VIP 会员服务
type VipService struct {
	userRepo      *repository.GormUserRepository
	couponService *CouponService
}

// NewVipService 创建 VIP 服务
func NewVipService(userRepo *repository.GormUserRepository, couponService *CouponService) *VipService {
	return &VipService{
		userRepo:      userRepo,
		couponService: couponService,
	}
}

// GetVipStatus 查询当前用户的 VIP 资格与权益
func (s *VipService) GetVipStatus(userID uint) (*VipStatus, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	months := membershipMonths(user.MemberSince, time.Now())
	policy := resolveTierPolicy(constants.RoleVip)
	return &VipStatus{
		Role:             user.Role,
		IsVip:            isVipRole(user.Role),
		Eligible:         user.Role == constants.RoleUser && months >= vipEligibilityMonths,
		MembershipMonths: months,
		RequiredMonths:   vipEligibilityMonths,
		DiscountRate:     policy.VipDiscountRate,
		DiscountCap:      policy.VipDiscountCap,
	}, nil
}

// PromoteToVip 晋升为 VIP。
// 要求当前角色为 USER 且入会满 12 个月；晋升与专属券发放在同一事务内，
// 并提升 Token 版本，强制重新登录刷新角色。
func (s *VipService) PromoteToVip(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Role != constants.RoleUser {
		return nil, ErrVipIneligible
	}
	if membershipMonths(user.MemberSince, time.Now()) < vipEligibilityMonths {
		return nil, ErrVipIneligible
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		if err := userRepo.UpdateRole(user.ID, constants.RoleVip); err != nil {
			return err
		}
		if err := userRepo.BumpTokenVersion(user.ID); err != nil {
			return err
		}
		user.Role = constants.RoleVip
		user.TokenVersion++
		if _, err := s.couponService.IssueVipSpecialCoupon(tx, user); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 角色已变化，刷新鉴权快照使旧 Token 失效
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	logger.Infow("user_promoted_to_vip", "user_id", user.ID)
	return user, nil
}

// AdminVipStatistics 管理端 VIP 统计
func (s *VipService) AdminVipStatistics() (*VipStatistics, error) {
	counts, err := s.userRepo.CountByRole()
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	recent, err := s.userRepo.ListRecentByRole(constants.RoleVip, time.Now().AddDate(0, -1, 0), 10)
	if err != nil {
		return nil, err
	}

	return &VipStatistics{
		TotalUsers:       total,
		VipUsers:         counts[constants.RoleVip],
		AdminUsers:       counts[constants.RoleAdmin],
		RecentPromotions: recent,
	}, nil
}

// membershipMonths 计算入会整月数
func membershipMonths(since, now time.Time) int {
	if since.IsZero() || since.After(now) {
		return 0
	}
	months := (now.Year()-since.Year())*12 + int(now.Month()) - int(since.Month())
	if now.Day() < since.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
