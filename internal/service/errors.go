package service

import "errors"

// 服务层统一错误定义，处理器按 errors.Is 映射为 HTTP 响应码。
var (
	ErrNotFound           = errors.New("资源不存在")
	ErrForbidden          = errors.New("无权访问该资源")
	ErrInvalidEmail       = errors.New("邮箱格式不正确")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrWeakPassword       = errors.New("密码强度不足")

	ErrCategoryNotFound     = errors.New("分类不存在")
	ErrCategoryNameRequired = errors.New("分类名称不能为空")
	ErrCategoryNameTaken    = errors.New("分类名称已存在")

	ErrProductNotFound     = errors.New("商品不存在")
	ErrProductNotAvailable = errors.New("商品当前不可购买")
	ErrInvalidQuantity     = errors.New("数量必须大于 0")
	ErrCartEmpty           = errors.New("购物车为空")
	ErrCartItemNotFound    = errors.New("购物车中没有该商品")

	ErrCouponNotFound = errors.New("优惠券不存在")
	ErrCouponUnusable = errors.New("优惠券不可用")

	ErrOrderNotFound     = errors.New("订单不存在")
	ErrInvalidOrderState = errors.New("当前订单状态不允许该操作")
	ErrOrderNoExhausted  = errors.New("订单号生成失败")

	ErrPaymentNotFound         = errors.New("支付记录不存在")
	ErrPaymentAlreadyCompleted = errors.New("订单已存在完成的支付")
	ErrInvalidPaymentState     = errors.New("当前支付状态不允许该操作")
	ErrAmountMismatch          = errors.New("支付金额与订单金额不一致")

	ErrVipIneligible = errors.New("不满足 VIP 晋升条件")

	ErrCaptchaRequired      = errors.New("需要验证码")
	ErrCaptchaInvalid       = errors.New("验证码错误")
	ErrCaptchaConfigInvalid = errors.New("验证码配置不可用")
)

// InsufficientStockError 库存不足错误，携带商品与数量信息。
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return "库存不足"
}

// Is 支持 errors.Is(err, ErrInsufficientStock) 判定
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ErrInsufficientStock 库存不足哨兵错误
var ErrInsufficientStock = errors.New("库存不足")
