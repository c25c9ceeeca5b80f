package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/easyshop/internal/domain/cart"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// cartRepository 购物车仓储实现
// 购物车不单独建表，每次由shopping_cart行 + products行重新组装
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uint) (*cart.ShoppingCart, error) {
	return r.load(dbFromContext(ctx, r.db), userID)
}

// LockByUserID SELECT ... FOR UPDATE锁定用户的购物车行
// 同一用户的并发结算会在这里排队，直到前一个事务提交或回滚
func (r *cartRepository) LockByUserID(ctx context.Context, userID uint) (*cart.ShoppingCart, error) {
	db := dbFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.load(db, userID)
}

func (r *cartRepository) load(db *gorm.DB, userID uint) (*cart.ShoppingCart, error) {
	var rows []CartItemModel
	if err := db.Where("user_id = ?", userID).Order("product_id ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	c := cart.New(userID)
	if len(rows) == 0 {
		return c, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}

	// 商品不加锁，读取的是当前价格快照
	var products []ProductModel
	if err := db.Session(&gorm.Session{NewDB: true}).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询购物车商品失败")
	}
	byID := make(map[uint]*ProductModel, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, row := range rows {
		p, ok := byID[row.ProductID]
		if !ok {
			// 商品已被删除，忽略该行
			continue
		}
		// 表中没有折扣列，折扣恒为0
		item, err := cart.NewCartItem(*toProductEntity(p), row.Quantity, decimal.Zero)
		if err != nil {
			return nil, apperrors.Wrapf(err, "购物车数据异常: product_id=%d", row.ProductID)
		}
		c.Add(item)
	}
	return c, nil
}

// AddProduct 已存在则数量+1，否则插入数量1
func (r *cartRepository) AddProduct(ctx context.Context, userID, productID uint) error {
	row := &CartItemModel{UserID: userID, ProductID: productID, Quantity: 1}
	err := dbFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("quantity + 1")}),
	}).Create(row).Error
	if err != nil {
		return apperrors.Wrap(err, "加入购物车失败")
	}
	return nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity < 1 {
		return cart.ErrInvalidQuantity
	}

	db := dbFromContext(ctx, r.db)
	var count int64
	err := db.Model(&CartItemModel{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(err, "查询购物车失败")
	}
	if count == 0 {
		return cart.ErrItemNotInCart
	}

	err = db.Model(&CartItemModel{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity).Error
	if err != nil {
		return apperrors.Wrap(err, "更新购物车失败")
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID uint) error {
	if err := dbFromContext(ctx, r.db).Where("user_id = ?", userID).Delete(&CartItemModel{}).Error; err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}
