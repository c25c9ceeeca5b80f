// Package metrics 基于Prometheus的指标收集
//
// 指标类型选择：
//   - 计数用Counter：请求数、结算次数、消息发布数
//   - 瞬时值用Gauge：正在处理的请求数、正在结算的数量
//   - 分布用Histogram：耗时、订单金额
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）。
// 标签只用有限取值（method、status、result），不要用user_id这类高基数值。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	o, err := checkout(ctx)
//	metrics.RecordCheckout(metrics.CheckoutResult(err), time.Since(start))
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结算结果标签取值
const (
	ResultSuccess      = "success"
	ResultUserNotFound = "user_not_found"
	ResultInvalidState = "invalid_state"
	ResultTimeout      = "timeout"
	ResultError        = "error"
)

var (
	once sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数，标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时，标签：method、path
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 结算指标

	// CheckoutsTotal 结算次数，标签：result
	CheckoutsTotal *prometheus.CounterVec

	// CheckoutDuration 结算耗时（含等锁）
	CheckoutDuration prometheus.Histogram

	// CheckoutsInProgress 正在结算的数量
	CheckoutsInProgress prometheus.Gauge

	// CheckoutLockWait 等待用户结算锁的耗时
	CheckoutLockWait prometheus.Histogram

	// OrderAmount 订单金额分布
	OrderAmount prometheus.Histogram

	// OrderLineItems 每单明细数分布
	OrderLineItems prometheus.Histogram

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数，标签：routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数，标签：queue、result
	MessagesConsumedTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED 1=OPEN 2=HALF_OPEN），标签：name
	CircuitBreakerState *prometheus.GaugeVec
)

// InitMetrics 注册所有指标到默认Registry，重复调用无副作用
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "结算次数",
		},
		[]string{"result"},
	)

	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "结算耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	CheckoutsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "checkouts_in_progress",
			Help: "正在结算的数量",
		},
	)

	CheckoutLockWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_lock_wait_seconds",
			Help:    "等待用户结算锁的耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	OrderAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_amount",
			Help:    "订单金额分布",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	OrderLineItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_line_items",
			Help:    "每单明细数",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"routing_key", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态：0=CLOSED 1=OPEN 2=HALF_OPEN",
		},
		[]string{"name"},
	)
}

// ObserveHTTPRequest 记录一次HTTP请求
func ObserveHTTPRequest(method, path, status string, d time.Duration) {
	InitMetrics()
	HTTPRequestsTotal.With(prometheus.Labels{"method": method, "path": path, "status": status}).Inc()
	HTTPRequestDuration.With(prometheus.Labels{"method": method, "path": path}).Observe(d.Seconds())
}

// RecordCheckout 记录一次结算结果与耗时
func RecordCheckout(result string, d time.Duration) {
	InitMetrics()
	CheckoutsTotal.WithLabelValues(result).Inc()
	CheckoutDuration.Observe(d.Seconds())
}

// ObserveOrder 记录成功订单的金额与明细数
func ObserveOrder(amount float64, lineItems int) {
	InitMetrics()
	OrderAmount.Observe(amount)
	OrderLineItems.Observe(float64(lineItems))
}

// ObserveLockWait 记录等锁耗时
func ObserveLockWait(d time.Duration) {
	InitMetrics()
	CheckoutLockWait.Observe(d.Seconds())
}

// TrackCheckoutInProgress 递增正在结算数，返回的函数用于递减
func TrackCheckoutInProgress() func() {
	InitMetrics()
	CheckoutsInProgress.Inc()
	return CheckoutsInProgress.Dec
}

// IncMessagesPublished 记录消息发布结果
func IncMessagesPublished(routingKey string, err error) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(routingKey, resultOf(err)).Inc()
}

// IncMessagesConsumed 记录消息消费结果
func IncMessagesConsumed(queue string, err error) {
	InitMetrics()
	MessagesConsumedTotal.WithLabelValues(queue, resultOf(err)).Inc()
}

// SetCircuitBreakerState 记录熔断器状态
func SetCircuitBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func resultOf(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
