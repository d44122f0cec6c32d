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

// ListMyCoupons 获取我的优惠券列表
func (h *Handler) ListMyCoupons(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	onlyUsable := c.DefaultQuery("only_usable", "false") == "true"

	coupons, total, err := h.CouponService.ListCoupons(repository.CouponListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     userID,
		Type:       strings.TrimSpace(c.Query("type")),
		OnlyUsable: onlyUsable,
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

// GetMyCoupon 获取优惠券详情（含可用性）
func (h *Handler) GetMyCoupon(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	couponID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || couponID == 0 {
		respondError(c, response.CodeBadRequest, "非法的优惠券标识", nil)
		return
	}

	coupon, err := h.CouponService.GetCoupon(userID, uint(couponID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			respondError(c, response.CodeNotFound, "优惠券不存在", nil)
		case errors.Is(err, service.ErrForbidden):
			respondError(c, response.CodeForbidden, "无权访问该优惠券", nil)
		default:
			respondError(c, response.CodeInternal, "获取优惠券失败", err)
		}
		return
	}

	usable, err := h.CouponService.IsCouponUsable(userID, uint(couponID))
	if err != nil {
		respondError(c, response.CodeInternal, "获取优惠券失败", err)
		return
	}

	response.Success(c, gin.H{
		"coupon": coupon,
		"usable": usable,
	})
}
