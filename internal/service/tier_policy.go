package service

import (
	"github.com/shopspring/decimal"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
)

// TierPolicy 会员等级策略。
// 欢迎券金额、有效期与 VIP 折扣规则全部集中在这张表里，
// 避免各服务各自散落角色分支。
type TierPolicy struct {
	WelcomeAmount       int64 // 欢迎券金额
	WelcomeValidityDays int   // 欢迎券有效天数
	VipDiscountRate     int64 // VIP 折扣率（百分比）
	VipDiscountCap      int64 // VIP 折扣上限
}

// tierPolicies 按角色索引的策略表，角色集合固定为 USER/VIP/ADMIN。
var tierPolicies = map[string]TierPolicy{
	constants.RoleUser: {
		WelcomeAmount:       5000,
		WelcomeValidityDays: 30,
	},
	constants.RoleVip: {
		WelcomeAmount:       10000,
		WelcomeValidityDays: 60,
		VipDiscountRate:     5,
		VipDiscountCap:      5000,
	},
	constants.RoleAdmin: {
		WelcomeAmount:       15000,
		WelcomeValidityDays: 90,
		VipDiscountRate:     5,
		VipDiscountCap:      5000,
	},
}

// VIP 专属券与生日券常量
const (
	vipSpecialCouponAmount       = 20000
	vipSpecialCouponValidityDays = 90
	birthdayCouponAmount         = 30000
	birthdayCouponValidityDays   = 30
)

// resolveTierPolicy 查询角色策略，未知角色按 USER 处理。
func resolveTierPolicy(role string) TierPolicy {
	if policy, ok := tierPolicies[role]; ok {
		return policy
	}
	return tierPolicies[constants.RoleUser]
}

// isVipRole 判断角色是否享受 VIP 折扣
func isVipRole(role string) bool {
	return role == constants.RoleVip || role == constants.RoleAdmin
}

// calculateVipDiscount 计算 VIP 折扣：min(原价 * 折扣率 / 100, 折扣上限)。
// 非 VIP 角色返回 0。
func calculateVipDiscount(role string, originalAmount models.Money) models.Money {
	policy := resolveTierPolicy(role)
	if policy.VipDiscountRate <= 0 {
		return models.NewMoneyFromInt(0)
	}
	discount := originalAmount.Decimal.
		Mul(decimal.NewFromInt(policy.VipDiscountRate)).
		Div(decimal.NewFromInt(100))
	capAmount := decimal.NewFromInt(policy.VipDiscountCap)
	if policy.VipDiscountCap > 0 && discount.GreaterThan(capAmount) {
		discount = capAmount
	}
	return models.NewMoneyFromDecimal(discount)
}
