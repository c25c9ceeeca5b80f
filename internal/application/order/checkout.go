package order

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/easyshop/internal/domain/cart"
	"github.com/xiebiao/easyshop/internal/domain/order"
	"github.com/xiebiao/easyshop/internal/domain/profile"
	"github.com/xiebiao/easyshop/internal/domain/user"
	"github.com/xiebiao/easyshop/internal/infrastructure/config"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
	"github.com/xiebiao/easyshop/pkg/metrics"
	"github.com/xiebiao/easyshop/pkg/tracing"
)

const tracerName = "easyshop/checkout"

// publishTimeout 发布order.created的时限，事务已提交，不受结算超时影响
const publishTimeout = 3 * time.Second

// TxManager 在一个数据库事务中执行fn，事务通过ctx传递给仓储
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CheckoutLocker 用户级结算互斥锁，返回释放函数
type CheckoutLocker interface {
	Acquire(ctx context.Context, userID uint) (release func(), err error)
}

// EventPublisher 领域事件发布
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// CheckoutUseCase 结算用例：把用户购物车原子地转换为订单
//
// 流程：
//  1. 用户名 → 用户（不存在返回NotFound，此时没有任何写操作）
//  2. 获取用户结算锁（跨进程串行化同一用户的结算）
//  3. 事务内：SELECT ... FOR UPDATE锁定购物车行，空购物车返回InvalidState
//  4. 事务内：读取收货资料，没有资料返回InvalidState
//  5. 事务内：插入订单（地址快照 + 购物车总额），逐条插入明细，清空购物车
//  6. 提交后释放锁，记录指标，发布order.created（失败只记日志）
//
// 整个流程受checkout.timeout约束，超时返回Internal错误；事务保证不会留下半成品
type CheckoutUseCase struct {
	userRepo    user.Repository
	cartRepo    cart.Repository
	profileRepo profile.Repository
	orderRepo   order.Repository
	txManager   TxManager
	locker      CheckoutLocker
	publisher   EventPublisher
	timeout     time.Duration
	now         func() time.Time
	log         *zap.Logger
}

// NewCheckoutUseCase 创建结算用例
func NewCheckoutUseCase(
	userRepo user.Repository,
	cartRepo cart.Repository,
	profileRepo profile.Repository,
	orderRepo order.Repository,
	txManager TxManager,
	locker CheckoutLocker,
	publisher EventPublisher,
	cfg *config.Config,
	log *zap.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		profileRepo: profileRepo,
		orderRepo:   orderRepo,
		txManager:   txManager,
		locker:      locker,
		publisher:   publisher,
		timeout:     cfg.Checkout.Timeout,
		now:         time.Now,
		log:         log,
	}
}

// Execute 为username结算，返回带ID和明细的订单
func (uc *CheckoutUseCase) Execute(ctx context.Context, username string) (*order.Order, error) {
	start := time.Now()
	done := metrics.TrackCheckoutInProgress()
	defer done()

	ctx, span := tracing.StartSpan(ctx, tracerName, "Checkout")
	span.SetAttributes(attribute.String("user.name", username))

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	o, err := uc.checkout(ctx, username)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = &apperrors.AppError{
			Code:    order.ErrCheckoutTimeout.Code,
			Message: order.ErrCheckoutTimeout.Message,
			Err:     err,
		}
	}

	metrics.RecordCheckout(checkoutResult(err), time.Since(start))
	tracing.EndSpan(span, err)

	if err != nil {
		uc.logFailure(ctx, username, err)
		return nil, err
	}

	amount, _ := o.ShippingAmount.Float64()
	metrics.ObserveOrder(amount, len(o.LineItems))

	uc.log.Info("结算成功",
		zap.Uint("order_id", o.ID),
		zap.Uint("user_id", o.UserID),
		zap.String("shipping_amount", o.ShippingAmount.StringFixed(2)),
		zap.Int("line_items", len(o.LineItems)),
		zap.Duration("latency", time.Since(start)),
		zap.String("trace_id", tracing.ExtractTraceID(ctx)))

	uc.publishCreated(ctx, o)
	return o, nil
}

func (uc *CheckoutUseCase) checkout(ctx context.Context, username string) (*order.Order, error) {
	u, err := uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	waitStart := time.Now()
	release, err := uc.locker.Acquire(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	defer release()
	metrics.ObserveLockWait(time.Since(waitStart))

	var created *order.Order
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := uc.cartRepo.LockByUserID(txCtx, u.ID)
		if err != nil {
			return err
		}
		if c.IsEmpty() {
			return cart.ErrCartEmpty
		}

		p, err := uc.profileRepo.FindByUserID(txCtx, u.ID)
		if err != nil {
			if errors.Is(err, profile.ErrProfileNotFound) {
				return order.ErrProfileRequired
			}
			return err
		}

		// orders.date是DATETIME（秒级），返回值与落库值保持一致
		o := order.NewOrder(u.ID, p.ShippingAddress(), c.Total(), uc.now().Truncate(time.Second))
		if err := uc.orderRepo.CreateOrder(txCtx, o); err != nil {
			return err
		}
		if o.ID == 0 {
			return order.ErrOrderIDNotGenerated
		}

		for _, item := range c.SortedItems() {
			li := order.NewLineItem(o.ID, item)
			if err := uc.orderRepo.CreateLineItem(txCtx, li); err != nil {
				return err
			}
			if li.ID == 0 {
				return order.ErrLineItemIDNotGenerated
			}
			o.LineItems = append(o.LineItems, li)
		}

		if err := uc.cartRepo.Clear(txCtx, u.ID); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// publishCreated 事务已提交，发布失败不影响结算结果
func (uc *CheckoutUseCase) publishCreated(ctx context.Context, o *order.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := uc.publisher.Publish(ctx, order.RoutingKeyOrderCreated, order.NewCreatedEvent(o)); err != nil {
		uc.log.Warn("发布订单创建事件失败",
			zap.Uint("order_id", o.ID),
			zap.Error(err))
	}
}

func (uc *CheckoutUseCase) logFailure(ctx context.Context, username string, err error) {
	appErr := apperrors.GetAppError(err)
	fields := []zap.Field{
		zap.String("username", username),
		zap.Int("code", appErr.Code),
		zap.Error(err),
		zap.String("trace_id", tracing.ExtractTraceID(ctx)),
	}
	if appErr.HTTPStatus() >= 500 {
		uc.log.Error("结算失败", fields...)
		return
	}
	uc.log.Info("结算被拒绝", fields...)
}

func checkoutResult(err error) string {
	if err == nil {
		return metrics.ResultSuccess
	}
	switch code := apperrors.GetAppError(err).Code; {
	case code == apperrors.ErrCodeTimeout:
		return metrics.ResultTimeout
	case code == apperrors.ErrCodeUserNotFound:
		return metrics.ResultUserNotFound
	case code == apperrors.ErrCodeInvalidState:
		return metrics.ResultInvalidState
	default:
		return metrics.ResultError
	}
}
