package public

import (
	"errors"
	"strconv"

	"github.com/h-h0304/Commerce-Coupon/internal/http/response"
	"github.com/h-h0304/Commerce-Coupon/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCategories 获取启用中的分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListActiveCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "获取分类列表失败", err)
		return
	}
	response.Success(c, categories)
}

// GetCategory 获取分类详情
func (h *Handler) GetCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || categoryID == 0 {
		respondError(c, response.CodeBadRequest, "非法的分类标识", nil)
		return
	}

	category, err := h.CategoryService.GetCategory(uint(categoryID))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeNotFound, "分类不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取分类详情失败", err)
		return
	}
	response.Success(c, category)
}
