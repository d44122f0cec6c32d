package service

import (
	"strings"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/logger"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"
)

// CategoryService 商品分类服务
type CategoryService struct {
	categoryRepo *repository.GormCategoryRepository
	productRepo  *repository.GormProductRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo *repository.GormCategoryRepository, productRepo *repository.GormProductRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, productRepo: productRepo}
}

// CategoryDetail 分类视图，附带在售商品数
type CategoryDetail struct {
	models.Category
	ProductCount int64 `json:"product_count"`
}

// CategoryInput 分类创建/更新入参
type CategoryInput struct {
	Name         string
	Description  string
	DisplayOrder int
}

// ListActiveCategories 启用中的分类列表，按展示顺序排列
func (s *CategoryService) ListActiveCategories() ([]CategoryDetail, error) {
	categories, err := s.categoryRepo.ListActive()
	if err != nil {
		return nil, err
	}
	details := make([]CategoryDetail, 0, len(categories))
	for _, category := range categories {
		detail, err := s.buildDetail(category)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// GetCategory 分类详情（含停用分类，停用分类详情仍可查看）
func (s *CategoryService) GetCategory(categoryID uint) (*CategoryDetail, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	detail, err := s.buildDetail(*category)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// AdminCreateCategory 管理端创建分类，名称全局唯一
func (s *CategoryService) AdminCreateCategory(input CategoryInput) (*CategoryDetail, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	existing, err := s.categoryRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryNameTaken
	}

	now := time.Now()
	category := &models.Category{
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		IsActive:     true,
		DisplayOrder: input.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Infow("category_created", "category_id", category.ID, "name", category.Name)
	detail, err := s.buildDetail(*category)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// AdminUpdateCategory 管理端更新分类，改名时校验新名称未被占用
func (s *CategoryService) AdminUpdateCategory(categoryID uint, input CategoryInput) (*CategoryDetail, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	if name != category.Name {
		existing, err := s.categoryRepo.GetByName(name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrCategoryNameTaken
		}
	}

	category.Name = name
	category.Description = strings.TrimSpace(input.Description)
	category.DisplayOrder = input.DisplayOrder
	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	logger.Infow("category_updated", "category_id", category.ID, "name", category.Name)
	detail, err := s.buildDetail(*category)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// AdminDeactivateCategory 管理端停用分类。
// 停用不删除数据，分类下的商品保持原状，仅从公开列表消失。
func (s *CategoryService) AdminDeactivateCategory(categoryID uint) error {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	if !category.IsActive {
		return nil
	}

	category.IsActive = false
	category.UpdatedAt = time.Now()
	if err := s.categoryRepo.Update(category); err != nil {
		return err
	}

	logger.Infow("category_deactivated", "category_id", category.ID, "name", category.Name)
	return nil
}

func (s *CategoryService) buildDetail(category models.Category) (CategoryDetail, error) {
	count, err := s.productRepo.CountActiveByCategory(category.ID)
	if err != nil {
		return CategoryDetail{}, err
	}
	return CategoryDetail{Category: category, ProductCount: count}, nil
}
