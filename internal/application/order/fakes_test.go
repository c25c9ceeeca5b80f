package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/easyshop/internal/domain/cart"
	"github.com/xiebiao/easyshop/internal/domain/order"
	"github.com/xiebiao/easyshop/internal/domain/product"
	"github.com/xiebiao/easyshop/internal/domain/profile"
	"github.com/xiebiao/easyshop/internal/domain/user"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// memStore 内存版数据库，Transaction失败时整体恢复快照（模拟ROLLBACK）
type memStore struct {
	mu sync.Mutex

	users     map[string]*user.User
	profiles  map[uint]profile.Profile
	products  map[uint]product.Product
	carts     map[uint]map[uint]int // userID → productID → quantity
	discounts map[uint]decimal.Decimal
	orders    map[uint]order.Order
	lineItems []order.OrderLineItem

	nextOrderID uint
	nextLineID  uint
	writes      int

	// 故障注入
	failLineItemAt int // 第N次CreateLineItem失败（从1开始），0表示不失败
	lineItemCalls  int
	dropOrderID    bool          // CreateOrder不回填ID
	txDelay        time.Duration // 事务开始前等待（模拟慢查询/锁等待）
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[string]*user.User),
		profiles:  make(map[uint]profile.Profile),
		products:  make(map[uint]product.Product),
		carts:     make(map[uint]map[uint]int),
		discounts: make(map[uint]decimal.Decimal),
		orders:    make(map[uint]order.Order),
	}
}

func (s *memStore) addUser(id uint, username string) {
	s.users[username] = &user.User{ID: id, Username: username, Role: user.RoleUser}
}

func (s *memStore) addProduct(id uint, price string) {
	s.products[id] = product.Product{ID: id, Name: "p", Price: decimal.RequireFromString(price)}
}

func (s *memStore) addToCart(userID, productID uint, qty int) {
	if s.carts[userID] == nil {
		s.carts[userID] = make(map[uint]int)
	}
	s.carts[userID][productID] = qty
}

func (s *memStore) addProfile(userID uint, address, city, state, zip string) {
	s.profiles[userID] = profile.Profile{UserID: userID, Address: address, City: city, State: state, Zip: zip}
}

func (s *memStore) cartLen(userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts[userID])
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) lineItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lineItems)
}

type snapshot struct {
	carts       map[uint]map[uint]int
	orders      map[uint]order.Order
	lineItems   []order.OrderLineItem
	nextOrderID uint
	nextLineID  uint
	writes      int
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	carts := make(map[uint]map[uint]int, len(s.carts))
	for uid, items := range s.carts {
		cp := make(map[uint]int, len(items))
		for pid, q := range items {
			cp[pid] = q
		}
		carts[uid] = cp
	}
	orders := make(map[uint]order.Order, len(s.orders))
	for id, o := range s.orders {
		orders[id] = o
	}
	return snapshot{
		carts:       carts,
		orders:      orders,
		lineItems:   append([]order.OrderLineItem(nil), s.lineItems...),
		nextOrderID: s.nextOrderID,
		nextLineID:  s.nextLineID,
		writes:      s.writes,
	}
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts = snap.carts
	s.orders = snap.orders
	s.lineItems = snap.lineItems
	s.nextOrderID = snap.nextOrderID
	s.nextLineID = snap.nextLineID
	s.writes = snap.writes
}

// =========================================
// TxManager
// =========================================

type memTxManager struct {
	store *memStore
	// txMu 串行化事务，模拟购物车行上的FOR UPDATE
	txMu sync.Mutex
}

func (m *memTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if d := m.store.txDelay; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return apperrors.Wrap(ctx.Err(), "开启事务失败")
		}
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	if err := ctx.Err(); err != nil {
		m.store.restore(snap)
		return apperrors.Wrap(err, "提交事务失败")
	}
	return nil
}

// =========================================
// 仓储
// =========================================

type memUserRepo struct{ s *memStore }

func (r memUserRepo) Create(context.Context, *user.User) error { return errors.New("not implemented") }

func (r memUserRepo) FindByID(_ context.Context, id uint) (*user.User, error) {
	for _, u := range r.s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r memUserRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	if u, ok := r.s.users[username]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r memUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.s.users[username]
	return ok, nil
}

type memCartRepo struct{ s *memStore }

func (r memCartRepo) GetByUserID(_ context.Context, userID uint) (*cart.ShoppingCart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := cart.New(userID)
	for pid, qty := range r.s.carts[userID] {
		item, err := cart.NewCartItem(r.s.products[pid], qty, r.s.discounts[pid])
		if err != nil {
			return nil, err
		}
		c.Add(item)
	}
	return c, nil
}

func (r memCartRepo) LockByUserID(ctx context.Context, userID uint) (*cart.ShoppingCart, error) {
	return r.GetByUserID(ctx, userID)
}

func (r memCartRepo) AddProduct(_ context.Context, userID, productID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.writes++
	if r.s.carts[userID] == nil {
		r.s.carts[userID] = make(map[uint]int)
	}
	r.s.carts[userID][productID]++
	return nil
}

func (r memCartRepo) UpdateQuantity(_ context.Context, userID, productID uint, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.carts[userID][productID]; !ok {
		return cart.ErrItemNotInCart
	}
	r.s.writes++
	r.s.carts[userID][productID] = quantity
	return nil
}

func (r memCartRepo) Clear(_ context.Context, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.writes++
	delete(r.s.carts, userID)
	return nil
}

type memProfileRepo struct{ s *memStore }

func (r memProfileRepo) Create(_ context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.writes++
	r.s.profiles[p.UserID] = *p
	return nil
}

func (r memProfileRepo) FindByUserID(_ context.Context, userID uint) (*profile.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return &p, nil
}

func (r memProfileRepo) Update(_ context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[p.UserID]; !ok {
		return profile.ErrProfileNotFound
	}
	r.s.writes++
	r.s.profiles[p.UserID] = *p
	return nil
}

type memOrderRepo struct{ s *memStore }

func (r memOrderRepo) CreateOrder(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.writes++
	r.s.nextOrderID++
	stored := *o
	stored.ID = r.s.nextOrderID
	stored.LineItems = nil
	r.s.orders[stored.ID] = stored
	if !r.s.dropOrderID {
		o.ID = stored.ID
	}
	return nil
}

func (r memOrderRepo) CreateLineItem(_ context.Context, li *order.OrderLineItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lineItemCalls++
	if r.s.failLineItemAt > 0 && r.s.lineItemCalls == r.s.failLineItemAt {
		return apperrors.Wrap(errors.New("simulated insert failure"), "创建订单明细失败")
	}
	r.s.writes++
	r.s.nextLineID++
	li.ID = r.s.nextLineID
	r.s.lineItems = append(r.s.lineItems, *li)
	return nil
}

func (r memOrderRepo) FindByID(_ context.Context, id uint) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	for i := range r.s.lineItems {
		if r.s.lineItems[i].OrderID == id {
			li := r.s.lineItems[i]
			o.LineItems = append(o.LineItems, &li)
		}
	}
	return &o, nil
}

func (r memOrderRepo) ListByUserID(_ context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*order.Order
	for id := uint(1); id <= r.s.nextOrderID; id++ {
		if o, ok := r.s.orders[id]; ok && o.UserID == userID {
			o := o
			all = append(all, &o)
		}
	}
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// =========================================
// 锁与事件
// =========================================

// memLocker 每个用户一个容量为1的channel，Acquire可被ctx取消
type memLocker struct {
	mu       sync.Mutex
	slots    map[uint]chan struct{}
	acquired int
	released int
}

func newMemLocker() *memLocker {
	return &memLocker{slots: make(map[uint]chan struct{})}
}

func (l *memLocker) Acquire(ctx context.Context, userID uint) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[userID]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[userID] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, apperrors.New(apperrors.ErrCodeTimeout, "结算繁忙，请稍后重试")
	}

	l.mu.Lock()
	l.acquired++
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
		<-slot
	}, nil
}

type memPublisher struct {
	mu     sync.Mutex
	err    error
	events []order.CreatedEvent
	keys   []string
}

func (p *memPublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, routingKey)
	p.events = append(p.events, message.(order.CreatedEvent))
	return nil
}
