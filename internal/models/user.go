package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                      // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`         // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                         // 密码哈希（不返回给前端）
	Name         string         `gorm:"default:''" json:"name"`                    // 姓名
	Role         string         `gorm:"not null;default:'USER';index" json:"role"` // 角色（USER/VIP/ADMIN）
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`               // Token 版本（角色变更后全量失效）
	MemberSince  time.Time      `gorm:"not null" json:"member_since"`              // 入会时间（VIP 资格判定依据）
	LastLoginAt  *time.Time     `json:"last_login_at"`                             // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                   // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
