package service

import (
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
	"github.com/h-h0304/Commerce-Coupon/internal/repository"

	"github.com/shopspring/decimal"
)

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	LineTotal models.Money    `json:"line_total"`
	Product   *models.Product `json:"product"`
}

// CartSummary 购物车汇总。
// 总额按当前商品价格即时计算，不落库；
// 同时给出按当前角色预估的 VIP 折扣，方便前端展示结算预览。
type CartSummary struct {
	Items                []CartItemDetail `json:"items"`
	TotalAmount          models.Money     `json:"total_amount"`
	EstimatedVipDiscount models.Money     `json:"estimated_vip_discount"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    *repository.GormCartRepository
	productRepo *repository.GormProductRepository
	userRepo    repository.UserRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo *repository.GormCartRepository, productRepo *repository.GormProductRepository, userRepo repository.UserRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// GetCart 获取用户购物车汇总
func (s *CartService) GetCart(userID uint) (*CartSummary, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	details := make([]CartItemDetail, 0, len(items))
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		// 已下架商品自动移出购物车
		if product == nil || product.Status != constants.ProductStatusActive {
			_ = s.cartRepo.DeleteByUserAndProduct(userID, item.ProductID)
			continue
		}

		lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		details = append(details, CartItemDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			LineTotal: models.NewMoneyFromDecimal(lineTotal),
			Product:   product,
		})
	}

	role := constants.RoleUser
	if user, err := s.userRepo.GetByID(userID); err == nil && user != nil {
		role = user.Role
	}
	totalAmount := models.NewMoneyFromDecimal(total)

	return &CartSummary{
		Items:                details,
		TotalAmount:          totalAmount,
		EstimatedVipDiscount: calculateVipDiscount(role, totalAmount),
	}, nil
}

// AddItem 加购。
// 同一商品重复加购时合并数量，库存与上架状态在加购时校验。
func (s *CartService) AddItem(userID, productID uint, quantity int) error {
	if userID == 0 || productID == 0 {
		return ErrNotFound
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if product.Status != constants.ProductStatusActive {
		return ErrProductNotAvailable
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}

	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if requested > product.Stock {
		return &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   requested,
			Available:   product.Stock,
		}
	}

	if existing != nil {
		affected, err := s.cartRepo.AddQuantity(userID, productID, quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrCartItemNotFound
		}
		return nil
	}

	now := time.Now()
	return s.cartRepo.Create(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// UpdateItemQuantity 设置购物车项数量
func (s *CartService) UpdateItemQuantity(userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	item, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || product.Status != constants.ProductStatusActive {
		return ErrProductNotAvailable
	}
	if quantity > product.Stock {
		return &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.Stock,
		}
	}

	return s.cartRepo.UpdateQuantity(item.ID, quantity)
}

// RemoveItem 移除购物车项
func (s *CartService) RemoveItem(userID, productID uint) error {
	item, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	return s.cartRepo.DeleteByUserAndProduct(userID, productID)
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(userID uint) error {
	return s.cartRepo.ClearByUser(userID)
}
