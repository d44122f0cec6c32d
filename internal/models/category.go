package models

import "time"

// Category 商品分类表
type Category struct {
	ID           uint      `gorm:"primarykey" json:"id"`                            // 主键
	Name         string    `gorm:"size:100;not null;uniqueIndex" json:"name"`       // 分类名称（唯一）
	Description  string    `gorm:"size:500" json:"description"`                     // 分类描述
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`    // 是否启用
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`         // 展示顺序
	CreatedAt    time.Time `json:"created_at"`                                      // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                      // 更新时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
