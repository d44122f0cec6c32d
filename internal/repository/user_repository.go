package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	UpdateRole(id uint, role string) error
	BumpTokenVersion(id uint) error
	List(filter UserListFilter) ([]models.User, int64, error)
	CountByRole() (map[string]int64, error)
	ListRecentByRole(role string, since time.Time, limit int) ([]models.User, error)
	WithTx(tx *gorm.DB) *GormUserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) *GormUserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateRole 更新用户角色
func (r *GormUserRepository) UpdateRole(id uint, role string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("role", role).Error
}

// BumpTokenVersion 提升 Token 版本，使旧 Token 全量失效
func (r *GormUserRepository) BumpTokenVersion(id uint) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
}

// List 获取用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	var users []models.User
	query := r.db.Model(&models.User{})

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		condition, argCount := buildKeywordLikeCondition(r.db, []string{"email", "name"})
		if condition != "" {
			query = query.Where(condition, repeatLikeArgs(like, argCount)...)
		}
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountByRole 按角色统计用户数量
func (r *GormUserRepository) CountByRole() (map[string]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	if err := r.db.Model(&models.User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

// ListRecentByRole 获取指定时间之后更新为某角色的用户
func (r *GormUserRepository) ListRecentByRole(role string, since time.Time, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []models.User
	if err := r.db.Where("role = ? AND updated_at >= ?", role, since).
		Order("updated_at desc").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
