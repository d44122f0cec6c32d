package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/h-h0304/Commerce-Coupon/internal/http/response"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"
	"github.com/h-h0304/Commerce-Coupon/internal/service"

	"github.com/gin-gonic/gin"
)

// ListOrders 管理端订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	orders, total, err := h.OrderService.AdminListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 管理端订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "非法的订单标识", nil)
		return
	}

	order, err := h.OrderRepo.GetByID(uint(orderID))
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单失败", err)
		return
	}
	if order == nil {
		respondError(c, response.CodeNotFound, "订单不存在", nil)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatusRequest 管理端修改订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 管理端覆盖订单状态
// 仅校验目标状态合法性，不做状态机约束
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "非法的订单标识", nil)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.AdminUpdateOrderStatus(uint(orderID), strings.TrimSpace(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		case errors.Is(err, service.ErrInvalidOrderState):
			respondError(c, response.CodeBadRequest, "未知的订单状态", nil)
		default:
			respondError(c, response.CodeInternal, "更新订单状态失败", err)
		}
		return
	}
	response.Success(c, order)
}
