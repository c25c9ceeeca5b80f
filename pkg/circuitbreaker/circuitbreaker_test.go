package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("broker unavailable")

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newBreaker(clock *fakeClock, transitions *[]string) *CircuitBreaker {
	return New("test", Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 3 },
		OnStateChange: func(_ string, from, to State) {
			*transitions = append(*transitions, from.String()+"->"+to.String())
		},
		Now: clock.Now,
	})
}

func fail() error    { return errDown }
func succeed() error { return nil }

func TestCircuitBreaker_ClosedCountsRequests(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var transitions []string
	cb := newBreaker(clock, &transitions)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(succeed))
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
	assert.Empty(t, transitions)

	// 统计窗口到期后计数清零
	clock.Advance(11 * time.Second)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, Counts{}, cb.Counts())
}

func TestCircuitBreaker_TripsAndFailsFast(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var transitions []string
	cb := newBreaker(clock, &transitions)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errDown)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "打开状态不应调用请求")
	assert.Equal(t, []string{"CLOSED->OPEN"}, transitions)
}

func TestCircuitBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var transitions []string
	cb := newBreaker(clock, &transitions)

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	require.NoError(t, cb.Execute(succeed))
	_ = cb.Execute(fail)

	assert.Equal(t, StateClosed, cb.State())
	c := cb.Counts()
	assert.Equal(t, uint32(1), c.ConsecutiveFailures)
	assert.InDelta(t, 0.75, c.FailureRate(), 1e-9)
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var transitions []string
	cb := newBreaker(clock, &transitions)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.Advance(31 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateHalfOpen, cb.State(), "需要MaxRequests次连续成功才关闭")
	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var transitions []string
	cb := newBreaker(clock, &transitions)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.Advance(31 * time.Second)

	assert.ErrorIs(t, cb.Execute(fail), errDown)
	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(succeed), ErrOpenState)
}

func TestCircuitBreaker_HalfOpenLimitsRequests(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var transitions []string
	cb := newBreaker(clock, &transitions)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.Advance(31 * time.Second)

	// 探测请求进行中时，超出MaxRequests的请求直接拒绝
	var inner []error
	err := cb.Execute(func() error {
		return cb.Execute(func() error {
			inner = append(inner, cb.Execute(succeed))
			return nil
		})
	})
	require.NoError(t, err)
	require.Len(t, inner, 1)
	assert.ErrorIs(t, inner[0], ErrOpenState)
}

func TestNew_Defaults(t *testing.T) {
	cb := New("defaults", Config{})
	for i := 0; i < 4; i++ {
		_ = cb.Execute(fail)
	}
	assert.Equal(t, StateClosed, cb.State())
	_ = cb.Execute(fail)
	assert.Equal(t, StateOpen, cb.State())
	assert.Equal(t, "defaults", cb.Name())
}
