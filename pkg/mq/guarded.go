package mq

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/easyshop/pkg/circuitbreaker"
	"github.com/xiebiao/easyshop/pkg/metrics"
)

// EventPublisher 可被熔断保护的发布者（*Publisher、NopPublisher都满足）
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
	Close() error
}

// GuardedPublisher 熔断保护的发布者
// Broker连续失败后熔断器打开，之后的Publish立即返回ErrBrokerUnavailable
type GuardedPublisher struct {
	next    EventPublisher
	breaker *circuitbreaker.CircuitBreaker
}

// ErrBrokerUnavailable 熔断器打开，消息未发布
var ErrBrokerUnavailable = errors.New("mq: broker unavailable, publish skipped")

// NewGuardedPublisher 用熔断器包装next
// failures为连续失败阈值，timeout为熔断持续时间
func NewGuardedPublisher(next EventPublisher, failures uint32, timeout time.Duration, log *zap.Logger) *GuardedPublisher {
	const name = "mq-publisher"
	if failures == 0 {
		failures = 5
	}

	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	breaker := circuitbreaker.New(name, circuitbreaker.Config{
		Timeout: timeout,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			log.Warn("熔断器状态变化",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &GuardedPublisher{next: next, breaker: breaker}
}

// Publish 熔断器打开时不访问Broker
func (p *GuardedPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	err := p.breaker.Execute(func() error {
		return p.next.Publish(ctx, routingKey, message)
	})
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		metrics.IncMessagesPublished(routingKey, err)
		return ErrBrokerUnavailable
	}
	return err
}

// State 熔断器当前状态
func (p *GuardedPublisher) State() circuitbreaker.State {
	return p.breaker.State()
}

// Close 关闭被包装的发布者
func (p *GuardedPublisher) Close() error {
	return p.next.Close()
}
