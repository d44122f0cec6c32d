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

// ListCoupons 管理端优惠券列表
func (h *Handler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	coupons, total, err := h.CouponService.ListCoupons(repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Type:     strings.TrimSpace(c.Query("type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取优惠券列表失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, coupons, pagination)
}

// GetCouponStatistics 管理端优惠券统计
func (h *Handler) GetCouponStatistics(c *gin.Context) {
	stats, err := h.CouponService.AdminCouponStatistics()
	if err != nil {
		respondError(c, response.CodeInternal, "获取优惠券统计失败", err)
		return
	}
	response.Success(c, stats)
}

// IssueBirthdayCouponRequest 生日券发放请求
type IssueBirthdayCouponRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// IssueBirthdayCoupon 管理端发放生日券（仅 VIP 及以上）
func (h *Handler) IssueBirthdayCoupon(c *gin.Context) {
	adminID, ok := getAdminUserID(c)
	if !ok {
		return
	}

	var req IssueBirthdayCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	coupon, err := h.CouponService.IssueBirthdayCoupon(req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "用户不存在", nil)
		case errors.Is(err, service.ErrForbidden):
			respondError(c, response.CodeBadRequest, "生日券仅限 VIP 用户", nil)
		default:
			respondError(c, response.CodeInternal, "发放生日券失败", err)
		}
		return
	}

	requestLog(c).Infow("admin_birthday_coupon_issued",
		"admin_id", adminID,
		"user_id", req.UserID,
		"coupon_id", coupon.ID,
	)
	response.Success(c, coupon)
}
