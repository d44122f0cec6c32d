package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                // 主键
	Name        string         `gorm:"not null;index" json:"name"`                          // 商品名称
	Description string         `gorm:"type:text" json:"description"`                        // 商品描述
	CategoryID  *uint          `gorm:"index" json:"category_id"`                            // 所属分类（可为空）
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 单价
	Stock       int            `gorm:"not null;default:0" json:"stock"`                     // 库存（条件更新保证不为负）
	Status      string         `gorm:"not null;default:'active';index" json:"status"`       // 商品状态
	SalesCount  int            `gorm:"not null;default:0" json:"sales_count"`               // 累计销量
	ViewCount   int            `gorm:"not null;default:0" json:"view_count"`                // 浏览次数
	ImageURL    string         `gorm:"type:text" json:"image_url"`                          // 商品图片
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                          // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
