package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/h-h0304/Commerce-Coupon/internal/http/response"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"
	"github.com/h-h0304/Commerce-Coupon/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminProductRequest 管理端商品请求体
type AdminProductRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	CategoryID  *uint        `json:"category_id"`
	Price       models.Money `json:"price" binding:"required"`
	Stock       int          `json:"stock"`
	Status      string       `json:"status"`
	ImageURL    string       `json:"image_url"`
}

// ListProducts 管理端商品列表（含下架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	categoryID, _ := strconv.ParseUint(c.DefaultQuery("category_id", "0"), 10, 64)
	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		Status:     strings.TrimSpace(c.Query("status")),
		CategoryID: uint(categoryID),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取商品列表失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// CreateProduct 管理端创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req AdminProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	product, err := h.ProductService.AdminCreateProduct(service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeBadRequest, "商品名称不能为空", nil)
		case errors.Is(err, service.ErrProductNotAvailable):
			respondError(c, response.CodeBadRequest, "非法的商品状态", nil)
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeBadRequest, "分类不存在", nil)
		default:
			respondError(c, response.CodeInternal, "创建商品失败", err)
		}
		return
	}
	response.Success(c, product)
}

// UpdateProduct 管理端更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "非法的商品标识", nil)
		return
	}

	var req AdminProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	product, err := h.ProductService.AdminUpdateProduct(uint(productID), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "商品不存在", nil)
		case errors.Is(err, service.ErrProductNotAvailable):
			respondError(c, response.CodeBadRequest, "非法的商品状态", nil)
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeBadRequest, "分类不存在", nil)
		default:
			respondError(c, response.CodeInternal, "更新商品失败", err)
		}
		return
	}
	response.Success(c, product)
}

// DeleteProduct 管理端删除商品（软删除）
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "非法的商品标识", nil)
		return
	}

	if err := h.ProductService.AdminDeleteProduct(uint(productID)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "商品不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "删除商品失败", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
