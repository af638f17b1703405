package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerTripsAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      time.Hour,
	})
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
		assert.Equal(t, CBClosed, cb.State())
	}

	require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	assert.Equal(t, CBOpen, cb.State())

	// Open breaker fast-fails without invoking the call.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		OpenTimeout:      time.Hour,
	})
	boom := errors.New("boom")

	require.Error(t, cb.Execute(func() error { return boom }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Error(t, cb.Execute(func() error { return boom }))
	assert.Equal(t, CBClosed, cb.State(), "non-consecutive failures do not trip the breaker")
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		OpenTimeout:      10 * time.Millisecond,
	})

	require.Error(t, cb.Execute(func() error { return errors.New("boom") }))
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	// One success is not enough with SuccessThreshold 2.
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		OpenTimeout:      10 * time.Millisecond,
	})

	require.Error(t, cb.Execute(func() error { return errors.New("boom") }))
	time.Sleep(15 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.Error(t, cb.Execute(func() error { return errors.New("still down") }))
	assert.Equal(t, CBOpen, cb.State())
}

func TestCBStateString(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
}
