package admin

import (
	"github.com/h-h0304/Commerce-Coupon/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetVipStatistics 管理端 VIP 统计
func (h *Handler) GetVipStatistics(c *gin.Context) {
	stats, err := h.VipService.AdminVipStatistics()
	if err != nil {
		respondError(c, response.CodeInternal, "获取 VIP 统计失败", err)
		return
	}
	response.Success(c, stats)
}
