package cart

import (
	"context"

	"github.com/xiebiao/easyshop/internal/domain/cart"
	"github.com/xiebiao/easyshop/internal/domain/product"
)

// UseCase 购物车用例
// 写操作之后重新读取购物车返回，保证响应里的金额来自数据库当前价格
type UseCase struct {
	cartRepo    cart.Repository
	productRepo product.Repository
}

// NewUseCase 创建购物车用例
func NewUseCase(cartRepo cart.Repository, productRepo product.Repository) *UseCase {
	return &UseCase{cartRepo: cartRepo, productRepo: productRepo}
}

// Get 当前用户购物车（条目 + 总额）
func (uc *UseCase) Get(ctx context.Context, userID uint) (*cart.ShoppingCart, error) {
	return uc.cartRepo.GetByUserID(ctx, userID)
}

// AddProduct 加入商品，已在购物车中则数量+1
func (uc *UseCase) AddProduct(ctx context.Context, userID, productID uint) (*cart.ShoppingCart, error) {
	if _, err := uc.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	if err := uc.cartRepo.AddProduct(ctx, userID, productID); err != nil {
		return nil, err
	}
	return uc.cartRepo.GetByUserID(ctx, userID)
}

// UpdateQuantity 修改数量，商品必须已在购物车中
func (uc *UseCase) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) (*cart.ShoppingCart, error) {
	if quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}
	if err := uc.cartRepo.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return uc.cartRepo.GetByUserID(ctx, userID)
}

// Clear 清空购物车
func (uc *UseCase) Clear(ctx context.Context, userID uint) error {
	return uc.cartRepo.Clear(ctx, userID)
}
