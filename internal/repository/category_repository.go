package repository

import (
	"errors"

	"github.com/h-h0304/Commerce-Coupon/internal/models"

	"gorm.io/gorm"
)

// GormCategoryRepository 分类数据访问
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCategoryRepository) WithTx(tx *gorm.DB) *GormCategoryRepository {
	if tx == nil {
		return r
	}
	return &GormCategoryRepository{db: tx}
}

// Create 创建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update 更新分类
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetByName 根据名称获取分类
func (r *GormCategoryRepository) GetByName(name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// ListActive 获取启用中的分类，按展示顺序排列
func (r *GormCategoryRepository) ListActive() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("is_active = ?", true).
		Order("display_order asc, id asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
