package constants

// 用户角色常量
const (
	RoleUser  = "USER"
	RoleVip   = "VIP"
	RoleAdmin = "ADMIN"
)

// 订单状态常量
const (
	OrderStatusPending         = "pending"
	OrderStatusPaid            = "paid"
	OrderStatusPreparing       = "preparing"
	OrderStatusShipped         = "shipped"
	OrderStatusDelivered       = "delivered"
	OrderStatusCancelled       = "cancelled"
	OrderStatusRefundRequested = "refund_requested"
	OrderStatusRefunded        = "refunded"
)

// 支付状态常量
const (
	PaymentStatusPending         = "pending"
	PaymentStatusCompleted       = "completed"
	PaymentStatusFailed          = "failed"
	PaymentStatusCancelled       = "cancelled"
	PaymentStatusPartialRefunded = "partial_refunded"
	PaymentStatusRefunded        = "refunded"
)

// 支付方式常量
const (
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
)

// 商品状态常量
const (
	ProductStatusActive                 = "active"
	ProductStatusOutOfStock             = "out_of_stock"
	ProductStatusDiscontinued           = "discontinued"
	ProductStatusTemporarilyUnavailable = "temporarily_unavailable"
)

// 优惠券类型常量
const (
	CouponTypeWelcome = "WELCOME"
	CouponTypeSpecial = "SPECIAL"
)

// 优惠券折扣方式常量
const (
	CouponDiscountFixed   = "fixed"
	CouponDiscountPercent = "percent"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin = "login"
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskOrderTimeoutCancel = "order:payment_timeout"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "cc"
)

// 订单号与支付键前缀常量
const (
	OrderNoPrefix    = "ORD"
	PaymentKeyPrefix = "PAY"
)
