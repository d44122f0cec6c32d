package public

import (
	"strings"

	"github.com/h-h0304/Commerce-Coupon/internal/http/response"
	"github.com/h-h0304/Commerce-Coupon/internal/models"

	"github.com/gin-gonic/gin"
)

// PreparePaymentRequest 发起支付请求
type PreparePaymentRequest struct {
	OrderID uint         `json:"order_id" binding:"required"`
	Amount  models.Money `json:"amount" binding:"required"`
	Method  string       `json:"method" binding:"required"`
}

// PreparePayment 发起支付
func (h *Handler) PreparePayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req PreparePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	payment, err := h.PaymentService.PreparePayment(userID, req.OrderID, req.Amount, req.Method)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "发起支付失败")
		return
	}
	response.Success(c, payment)
}

// CompletePaymentRequest 完成支付请求
type CompletePaymentRequest struct {
	Amount     models.Money `json:"amount" binding:"required"`
	CardNumber string       `json:"card_number"`
}

// CompletePayment 完成支付（模拟支付网关确认）
func (h *Handler) CompletePayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	paymentKey := strings.TrimSpace(c.Param("payment_key"))
	if paymentKey == "" {
		respondError(c, response.CodeBadRequest, "非法的支付标识", nil)
		return
	}

	var req CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	payment, err := h.PaymentService.CompletePayment(userID, paymentKey, req.Amount, req.CardNumber)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "支付失败")
		return
	}
	response.Success(c, payment)
}

// CancelPayment 取消支付（同时取消订单并回补库存与优惠券）
func (h *Handler) CancelPayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	paymentKey := strings.TrimSpace(c.Param("payment_key"))
	if paymentKey == "" {
		respondError(c, response.CodeBadRequest, "非法的支付标识", nil)
		return
	}

	payment, err := h.PaymentService.CancelPayment(userID, paymentKey)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "取消支付失败")
		return
	}
	response.Success(c, payment)
}

// GetPayment 获取支付详情
func (h *Handler) GetPayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	paymentKey := strings.TrimSpace(c.Param("payment_key"))
	if paymentKey == "" {
		respondError(c, response.CodeBadRequest, "非法的支付标识", nil)
		return
	}

	payment, err := h.PaymentService.GetPayment(userID, paymentKey)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "获取支付详情失败")
		return
	}
	response.Success(c, payment)
}
