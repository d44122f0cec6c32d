package models

import (
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号
func InitDefaultAdmin(email, password string) error {
	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin1234"
	}

	var count int64
	DB.Model(&User{}).Where("role = ?", constants.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "admin",
		Role:         constants.RoleAdmin,
		MemberSince:  time.Now(),
	}

	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin1234" {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}

	return nil
}
