package admin

import (
	"errors"
	"strconv"

	"github.com/h-h0304/Commerce-Coupon/internal/http/response"
	"github.com/h-h0304/Commerce-Coupon/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminCategoryRequest 管理端分类请求体
type AdminCategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

// CreateCategory 管理端创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req AdminCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	category, err := h.CategoryService.AdminCreateCategory(service.CategoryInput{
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		respondCategoryError(c, err, "创建分类失败")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 管理端更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || categoryID == 0 {
		respondError(c, response.CodeBadRequest, "非法的分类标识", nil)
		return
	}

	var req AdminCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	category, err := h.CategoryService.AdminUpdateCategory(uint(categoryID), service.CategoryInput{
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		respondCategoryError(c, err, "更新分类失败")
		return
	}
	response.Success(c, category)
}

// DeactivateCategory 管理端停用分类
func (h *Handler) DeactivateCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || categoryID == 0 {
		respondError(c, response.CodeBadRequest, "非法的分类标识", nil)
		return
	}

	if err := h.CategoryService.AdminDeactivateCategory(uint(categoryID)); err != nil {
		respondCategoryError(c, err, "停用分类失败")
		return
	}
	response.Success(c, gin.H{"deactivated": true})
}

func respondCategoryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "分类不存在", nil)
	case errors.Is(err, service.ErrCategoryNameRequired):
		respondError(c, response.CodeBadRequest, "分类名称不能为空", nil)
	case errors.Is(err, service.ErrCategoryNameTaken):
		respondError(c, response.CodeConflict, "分类名称已存在", nil)
	default:
		respondError(c, response.CodeInternal, fallback, err)
	}
}
