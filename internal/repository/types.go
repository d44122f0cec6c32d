package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Search     string
	Status     string
	CategoryID uint
	OnlyActive bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PaymentListFilter 查询支付列表的过滤条件
type PaymentListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	OrderID     uint
	Status      string
	Method      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CouponListFilter 查询优惠券列表的过滤条件
type CouponListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	Type       string
	OnlyUsable bool
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
