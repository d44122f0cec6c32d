package service

import (
	"strings"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/logger"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"
)

// knownProductStatuses 商品状态全集
var knownProductStatuses = map[string]bool{
	constants.ProductStatusActive:                 true,
	constants.ProductStatusOutOfStock:             true,
	constants.ProductStatusDiscontinued:           true,
	constants.ProductStatusTemporarilyUnavailable: true,
}

// ProductService 商品服务
type ProductService struct {
	productRepo  *repository.GormProductRepository
	categoryRepo *repository.GormCategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo *repository.GormProductRepository, categoryRepo *repository.GormCategoryRepository) *ProductService {
	return &ProductService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// ListProducts 商品列表（公开接口仅返回在售商品）
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetProduct 商品详情，浏览计数异步累加，失败仅记录日志。
func (s *ProductService) GetProduct(productID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	go func(id uint) {
		if err := s.productRepo.IncrementViewCount(id); err != nil {
			logger.Warnw("product_view_count_increment_failed", "product_id", id, "error", err)
		}
	}(product.ID)

	return product, nil
}

// CreateProductInput 商品创建/更新入参
type CreateProductInput struct {
	Name        string
	Description string
	CategoryID  *uint
	Price       models.Money
	Stock       int
	Status      string
	ImageURL    string
}

// resolveCategoryID 校验归属分类。
// nil 表示未指定，0 表示清除归属，其余值要求分类存在。
func (s *ProductService) resolveCategoryID(categoryID *uint) (*uint, error) {
	if categoryID == nil || *categoryID == 0 {
		return nil, nil
	}
	category, err := s.categoryRepo.GetByID(*categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return categoryID, nil
}

// AdminCreateProduct 管理端创建商品
func (s *ProductService) AdminCreateProduct(input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProductNotFound
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.ProductStatusActive
	}
	if !knownProductStatuses[status] {
		return nil, ErrProductNotAvailable
	}
	if input.Stock < 0 {
		return nil, ErrInvalidQuantity
	}

	categoryID, err := s.resolveCategoryID(input.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CategoryID:  categoryID,
		Price:       input.Price,
		Stock:       input.Stock,
		Status:      status,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// AdminUpdateProduct 管理端更新商品
func (s *ProductService) AdminUpdateProduct(productID uint, input CreateProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		product.Description = desc
	}
	if input.CategoryID != nil {
		categoryID, err := s.resolveCategoryID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}
	if input.Price.Decimal.IsPositive() {
		product.Price = input.Price
	}
	if input.Stock >= 0 {
		product.Stock = input.Stock
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		if !knownProductStatuses[status] {
			return nil, ErrProductNotAvailable
		}
		product.Status = status
	}
	if image := strings.TrimSpace(input.ImageURL); image != "" {
		product.ImageURL = image
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// AdminDeleteProduct 管理端删除商品（软删除）
func (s *ProductService) AdminDeleteProduct(productID uint) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(productID)
}
