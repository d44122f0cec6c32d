package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/h-h0304/Commerce-Coupon/internal/http/response"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"
	"github.com/h-h0304/Commerce-Coupon/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	search := strings.TrimSpace(c.Query("search"))
	categoryID, _ := strconv.ParseUint(c.DefaultQuery("category_id", "0"), 10, 64)

	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     search,
		CategoryID: uint(categoryID),
		OnlyActive: true,
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

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "非法的商品标识", nil)
		return
	}

	product, err := h.ProductService.GetProduct(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "商品不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取商品详情失败", err)
		return
	}

	response.Success(c, product)
}
