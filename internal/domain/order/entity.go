package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/easyshop/internal/domain/cart"
	"github.com/xiebiao/easyshop/internal/domain/profile"
)

// Order 订单实体（聚合根）
// 1. 地址字段是下单时收货资料的快照，之后修改资料不影响历史订单
// 2. ShippingAmount = 结算时购物车总额，创建后不再变化
// 3. 除了插入后回填的ID，订单创建后不可变
type Order struct {
	ID             uint
	UserID         uint
	Date           time.Time
	Address        string
	City           string
	State          string
	Zip            string
	ShippingAmount decimal.Decimal
	LineItems      []*OrderLineItem
}

// OrderLineItem 订单明细
// 1. 不是独立聚合根，生命周期跟随Order
// 2. SalesPrice是下单时单价快照，不随商品改价变化
// 3. 只保存ProductID，不直接引用Product对象
type OrderLineItem struct {
	ID         uint
	OrderID    uint
	ProductID  uint
	SalesPrice decimal.Decimal
	Quantity   int
	Discount   decimal.Decimal
}

// NewOrder 创建新订单（工厂方法）
func NewOrder(userID uint, addr profile.ShippingAddress, total decimal.Decimal, now time.Time) *Order {
	return &Order{
		UserID:         userID,
		Date:           now,
		Address:        addr.Address,
		City:           addr.City,
		State:          addr.State,
		Zip:            addr.Zip,
		ShippingAmount: total,
	}
}

// NewLineItem 由购物车条目生成订单明细（快照单价、数量、折扣）
func NewLineItem(orderID uint, item *cart.CartItem) *OrderLineItem {
	return &OrderLineItem{
		OrderID:    orderID,
		ProductID:  item.ProductID(),
		SalesPrice: item.Product.Price,
		Quantity:   item.Quantity,
		Discount:   item.DiscountPercent,
	}
}

// LineTotal 明细金额，与购物车行金额使用同一公式
func (li *OrderLineItem) LineTotal() decimal.Decimal {
	return cart.LineTotal(li.SalesPrice, li.Quantity, li.Discount)
}

// CalculateTotal 由明细复算订单金额
// 结算成功后必须等于ShippingAmount
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range o.LineItems {
		total = total.Add(li.LineTotal())
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户，防止访问他人订单
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
