package infra

import (
	"errors"
	"sync"
	"time"
)

// Circuit breaker guarding the remote sync API. When the server of record is
// down or the link is flapping, the breaker trips open and the sync manager
// treats the terminal as offline instead of burning a full retry pass per run.
//
// States: Closed (requests flow) → Open (fast-fail) → Half-Open (one probe).

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures to trip open
	SuccessThreshold int           // consecutive half-open successes to close
	OpenTimeout      time.Duration // time open before allowing a probe
}

func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

type CircuitBreaker struct {
	mu              sync.Mutex
	state           CBState
	failureCount    int
	successCount    int
	lastFailureTime time.Time
	cfg             CircuitBreakerConfig
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	return &CircuitBreaker{state: CBClosed, cfg: cfg}
}

// State reports the current state, transitioning open → half-open once the
// open timeout has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CBOpen && time.Since(cb.lastFailureTime) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.successCount = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, feeding the result back into
// the state machine.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failureCount++
		cb.lastFailureTime = time.Now()
		switch cb.state {
		case CBClosed:
			if cb.failureCount >= cb.cfg.FailureThreshold {
				cb.state = CBOpen
				cb.successCount = 0
			}
		case CBHalfOpen:
			cb.state = CBOpen
			cb.failureCount = 0
		}
		return err
	}

	switch cb.state {
	case CBClosed:
		cb.failureCount = 0
	case CBHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.failureCount = 0
			cb.successCount = 0
		}
	}
	return nil
}
