package cart

import (
	"context"
)

// Repository 购物车仓储接口
// 购物车每次都由shopping_cart行重新组装，没有行时返回空购物车（不是nil）
type Repository interface {
	// GetByUserID 读取用户购物车
	GetByUserID(ctx context.Context, userID uint) (*ShoppingCart, error)

	// LockByUserID 读取并锁定用户购物车行（SELECT ... FOR UPDATE）
	// 必须在事务中调用，用于结算时串行化同一用户的并发请求
	LockByUserID(ctx context.Context, userID uint) (*ShoppingCart, error)

	// AddProduct 加入商品：已存在则数量+1，否则插入数量1
	AddProduct(ctx context.Context, userID, productID uint) error

	// UpdateQuantity 修改购物车中已有商品的数量，不存在返回ErrItemNotInCart
	UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error

	// Clear 删除用户全部购物车行
	Clear(ctx context.Context, userID uint) error
}
