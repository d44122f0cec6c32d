package public

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/h-h0304/Commerce-Coupon/internal/http/response"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"
	"github.com/h-h0304/Commerce-Coupon/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 购物车结算请求
type CreateOrderRequest struct {
	CouponID       *uint  `json:"coupon_id"`
	RecipientName  string `json:"recipient_name" binding:"required"`
	RecipientPhone string `json:"recipient_phone" binding:"required"`
	Address        string `json:"address" binding:"required"`
	DetailAddress  string `json:"detail_address"`
	ZipCode        string `json:"zip_code"`
	DeliveryMemo   string `json:"delivery_memo"`
	Memo           string `json:"memo"`
}

// CreateOrder 购物车结算下单
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.CreateOrder(userID, service.CreateOrderInput{
		CouponID:       req.CouponID,
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		Address:        req.Address,
		DetailAddress:  req.DetailAddress,
		ZipCode:        req.ZipCode,
		DeliveryMemo:   req.DeliveryMemo,
		Memo:           req.Memo,
	})
	if err != nil {
		var stockErr *service.InsufficientStockError
		if errors.As(err, &stockErr) {
			respondError(c, response.CodeBadRequest,
				fmt.Sprintf("商品 %s 库存不足（需要 %d，剩余 %d）", stockErr.ProductName, stockErr.Requested, stockErr.Available), nil)
			return
		}
		respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "下单失败")
		return
	}

	response.Success(c, order)
}

// ListOrders 获取我的订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(c.Query("status")),
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

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "非法的订单标识", nil)
		return
	}

	order, err := h.OrderService.GetOrder(userID, uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取订单失败", err)
		return
	}
	response.Success(c, order)
}

// GetOrderByNo 按订单号获取订单详情
func (h *Handler) GetOrderByNo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "非法的订单号", nil)
		return
	}

	order, err := h.OrderService.GetOrderByNo(userID, orderNo)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取订单失败", err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单（回补库存并恢复优惠券）
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "非法的订单标识", nil)
		return
	}

	order, err := h.OrderService.CancelOrder(userID, uint(orderID))
	if err != nil {
		respondWithMappedError(c, err, orderCancelErrorRules, response.CodeInternal, "取消订单失败")
		return
	}
	response.Success(c, order)
}
