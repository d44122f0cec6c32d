package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录
type Payment struct {
	ID              uint           `gorm:"primarykey" json:"id"`                      // 主键
	PaymentKey      string         `gorm:"uniqueIndex;not null" json:"payment_key"`   // 支付键
	OrderID         uint           `gorm:"index;not null" json:"order_id"`            // 订单ID
	UserID          uint           `gorm:"index;not null" json:"user_id"`             // 用户ID
	Amount          Money          `gorm:"type:decimal(20,2);not null" json:"amount"` // 支付金额
	Method          string         `gorm:"not null" json:"method"`                    // 支付方式（card/transfer）
	Status          string         `gorm:"index;not null" json:"status"`              // 支付状态
	PgTransactionID string         `gorm:"index" json:"pg_transaction_id"`            // 支付网关流水号
	CardInfo        string         `gorm:"type:varchar(30)" json:"card_info"`         // 卡号掩码（仅保留后四位）
	ApprovedAt      *time.Time     `gorm:"index" json:"approved_at"`                  // 批准时间
	FailureReason   string         `gorm:"type:varchar(200)" json:"failure_reason"`   // 失败原因
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                   // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
