package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券（归属单个用户，一次性使用）
type Coupon struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                        // 主键
	Code            string         `gorm:"uniqueIndex;not null" json:"code"`                            // 优惠码
	UserID          uint           `gorm:"index;not null" json:"user_id"`                               // 归属用户ID
	Type            string         `gorm:"not null" json:"type"`                                        // 类型（WELCOME/SPECIAL）
	DiscountType    string         `gorm:"not null;default:'fixed'" json:"discount_type"`               // 折扣方式（fixed/percent）
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 固定折扣金额
	DiscountPercent int            `gorm:"not null;default:0" json:"discount_percent"`                  // 百分比折扣（percent 方式）
	MaxDiscount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`   // 最大优惠金额（percent 方式上限，0 不限制）
	ExpiresAt       time.Time      `gorm:"index;not null" json:"expires_at"`                            // 失效时间
	IsUsed          bool           `gorm:"not null;default:false;index" json:"is_used"`                 // 是否已使用
	UsedAt          *time.Time     `json:"used_at"`                                                     // 使用时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
