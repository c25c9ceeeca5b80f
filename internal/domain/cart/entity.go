package cart

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/easyshop/internal/domain/product"
)

// CartItem 购物车条目
// 不变式：LineTotal = Price × Quantity × (1 − DiscountPercent)
type CartItem struct {
	Product         product.Product // 读取购物车时的商品快照
	Quantity        int             // >= 1
	DiscountPercent decimal.Decimal // 0 <= d <= 1
}

// NewCartItem 创建购物车条目
// 注意：shopping_cart表没有折扣列，从数据库组装购物车时折扣恒为0
func NewCartItem(p product.Product, quantity int, discount decimal.Decimal) (*CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidDiscount
	}
	return &CartItem{
		Product:         p,
		Quantity:        quantity,
		DiscountPercent: discount,
	}, nil
}

// ProductID 条目对应的商品ID
func (i *CartItem) ProductID() uint {
	return i.Product.ID
}

// LineTotal 行金额（精确十进制运算，不做舍入）
func (i *CartItem) LineTotal() decimal.Decimal {
	return LineTotal(i.Product.Price, i.Quantity, i.DiscountPercent)
}

// LineTotal price × quantity × (1 − discount)
// 订单明细复算金额时使用同一公式，保证与购物车总额一致
func LineTotal(price decimal.Decimal, quantity int, discount decimal.Decimal) decimal.Decimal {
	return price.
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(decimal.NewFromInt(1).Sub(discount))
}

// ShoppingCart 购物车（属于一个用户）
// productID → CartItem，同一商品只有一个条目
type ShoppingCart struct {
	UserID uint
	Items  map[uint]*CartItem
}

// New 创建空购物车
func New(userID uint) *ShoppingCart {
	return &ShoppingCart{
		UserID: userID,
		Items:  make(map[uint]*CartItem),
	}
}

// Add 加入条目，同一商品会被替换
func (c *ShoppingCart) Add(item *CartItem) {
	c.Items[item.ProductID()] = item
}

// Contains 是否包含商品
func (c *ShoppingCart) Contains(productID uint) bool {
	_, ok := c.Items[productID]
	return ok
}

// Get 获取商品对应的条目
func (c *ShoppingCart) Get(productID uint) (*CartItem, bool) {
	item, ok := c.Items[productID]
	return item, ok
}

// IsEmpty 是否为空
func (c *ShoppingCart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Len 不同商品的数量
func (c *ShoppingCart) Len() int {
	return len(c.Items)
}

// Total 所有条目行金额之和
func (c *ShoppingCart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// SortedItems 按商品ID排序的条目
// 顺序不影响金额，只用于稳定的持久化顺序和响应输出
func (c *ShoppingCart) SortedItems() []*CartItem {
	items := make([]*CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID() < items[j].ProductID()
	})
	return items
}
