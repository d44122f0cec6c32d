package admin

import (
	"strconv"
	"strings"

	"github.com/h-h0304/Commerce-Coupon/internal/http/response"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListPayments 管理端支付列表
func (h *Handler) ListPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var userID, orderID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("order_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			orderID = uint(parsed)
		}
	}

	payments, total, err := h.PaymentService.AdminListPayments(repository.PaymentListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		OrderID:  orderID,
		Status:   strings.TrimSpace(c.Query("status")),
		Method:   strings.TrimSpace(c.Query("method")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取支付列表失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, payments, pagination)
}
