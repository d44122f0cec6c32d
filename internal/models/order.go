package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                   uint           `gorm:"primarykey" json:"id"`                                                 // 主键
	OrderNo              string         `gorm:"uniqueIndex;not null" json:"order_no"`                                 // 订单编号
	UserID               uint           `gorm:"index;not null" json:"user_id"`                                        // 用户ID
	Status               string         `gorm:"index;not null" json:"status"`                                         // 订单状态
	OriginalAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_amount"`         // 原始金额
	CouponDiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"coupon_discount_amount"`  // 优惠券折扣金额
	VipDiscountAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"vip_discount_amount"`     // VIP 折扣金额
	FinalAmount          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"final_amount"`            // 实付金额
	CouponID             *uint          `gorm:"index" json:"coupon_id,omitempty"`                                     // 使用的优惠券ID
	RecipientName        string         `gorm:"type:varchar(100)" json:"recipient_name"`                              // 收件人姓名
	RecipientPhone       string         `gorm:"type:varchar(30)" json:"recipient_phone"`                              // 收件人电话
	Address              string         `gorm:"type:varchar(200)" json:"address"`                                     // 收件地址
	DetailAddress        string         `gorm:"type:varchar(200)" json:"detail_address"`                              // 详细地址
	ZipCode              string         `gorm:"type:varchar(20)" json:"zip_code"`                                     // 邮编
	DeliveryMemo         string         `gorm:"type:varchar(200)" json:"delivery_memo"`                               // 配送备注
	Memo                 string         `gorm:"type:varchar(200)" json:"memo"`                                        // 订单备注
	PaidAt               *time.Time     `gorm:"index" json:"paid_at"`                                                 // 支付时间
	CancelledAt          *time.Time     `gorm:"index" json:"cancelled_at"`                                            // 取消时间
	CreatedAt            time.Time      `gorm:"index" json:"created_at"`                                              // 创建时间
	UpdatedAt            time.Time      `gorm:"index" json:"updated_at"`                                              // 更新时间
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`                                                       // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项快照
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
