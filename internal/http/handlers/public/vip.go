package public

import (
	"errors"

	"github.com/h-h0304/Commerce-Coupon/internal/http/response"
	"github.com/h-h0304/Commerce-Coupon/internal/service"

	"github.com/gin-gonic/gin"
)

// GetVipStatus 获取当前用户 VIP 状态
func (h *Handler) GetVipStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	status, err := h.VipService.GetVipStatus(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "用户不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取 VIP 状态失败", err)
		return
	}
	response.Success(c, status)
}

// PromoteToVip 申请晋升 VIP
// 晋升后旧 Token 失效，前端需持新响应引导重新登录
func (h *Handler) PromoteToVip(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.VipService.PromoteToVip(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "用户不存在", nil)
		case errors.Is(err, service.ErrVipIneligible):
			respondError(c, response.CodeBadRequest, "不满足 VIP 晋升条件", nil)
		default:
			respondError(c, response.CodeInternal, "VIP 晋升失败", err)
		}
		return
	}

	response.Success(c, gin.H{
		"promoted":       true,
		"role":           user.Role,
		"relogin_needed": true,
	})
}
