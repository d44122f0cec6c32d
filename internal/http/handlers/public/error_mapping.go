package public

import (
	"errors"

	"github.com/h-h0304/Commerce-Coupon/internal/http/response"
	"github.com/h-h0304/Commerce-Coupon/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "购物车为空"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "商品当前不可购买"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, msg: "库存不足"},
	{target: service.ErrCouponNotFound, code: response.CodeNotFound, msg: "优惠券不存在"},
	{target: service.ErrCouponUnusable, code: response.CodeBadRequest, msg: "优惠券不可用"},
	{target: service.ErrOrderNoExhausted, code: response.CodeInternal, msg: "订单号生成失败"},
}

var orderCancelErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "订单不存在"},
	{target: service.ErrForbidden, code: response.CodeForbidden, msg: "无权访问该订单"},
	{target: service.ErrInvalidOrderState, code: response.CodeBadRequest, msg: "当前订单状态不允许取消"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "商品不存在"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "商品当前不可购买"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "数量必须大于 0"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, msg: "库存不足"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "购物车中没有该商品"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "订单不存在"},
	{target: service.ErrForbidden, code: response.CodeForbidden, msg: "无权访问该资源"},
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound, msg: "支付记录不存在"},
	{target: service.ErrPaymentAlreadyCompleted, code: response.CodeConflict, msg: "订单已存在完成的支付"},
	{target: service.ErrInvalidOrderState, code: response.CodeBadRequest, msg: "当前订单状态不允许支付操作"},
	{target: service.ErrInvalidPaymentState, code: response.CodeBadRequest, msg: "当前支付状态不允许该操作"},
	{target: service.ErrAmountMismatch, code: response.CodeBadRequest, msg: "支付金额与订单金额不一致"},
}
