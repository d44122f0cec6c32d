package public

import (
	"strconv"

	"github.com/h-h0304/Commerce-Coupon/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	summary, err := h.CartService.GetCart(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "获取购物车失败", err)
		return
	}
	response.Success(c, summary)
}

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// AddCartItem 加入购物车（已存在则合并数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.CartService.AddItem(userID, req.ProductID, req.Quantity); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "加入购物车失败")
		return
	}

	summary, err := h.CartService.GetCart(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "获取购物车失败", err)
		return
	}
	response.Success(c, summary)
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateCartItem 修改购物车条目数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "非法的商品标识", nil)
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.CartService.UpdateItemQuantity(userID, uint(productID), req.Quantity); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "修改购物车失败")
		return
	}

	summary, err := h.CartService.GetCart(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "获取购物车失败", err)
		return
	}
	response.Success(c, summary)
}

// RemoveCartItem 删除购物车条目
func (h *Handler) RemoveCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "非法的商品标识", nil)
		return
	}

	if err := h.CartService.RemoveItem(userID, uint(productID)); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "删除购物车条目失败")
		return
	}
	response.Success(c, gin.H{"removed": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.ClearCart(userID); err != nil {
		respondError(c, response.CodeInternal, "清空购物车失败", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
