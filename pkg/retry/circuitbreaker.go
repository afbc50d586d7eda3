package retry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CircuitBreakerState represents the state of the circuit breaker
type CircuitBreakerState int

const (
	// StateClosed - circuit breaker is closed, requests are allowed
	StateClosed CircuitBreakerState = iota
	// StateOpen - circuit breaker is open, requests are rejected
	StateOpen
	// StateHalfOpen - circuit breaker is half-open, limited requests are allowed
	StateHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	Name             string        // Name for logging and metrics
	MaxFailures      int           // Maximum consecutive failures before opening
	ResetTimeout     time.Duration // Time to wait before transitioning to half-open
	SuccessThreshold int           // Successful requests needed to close from half-open
	Timeout          time.Duration // Request timeout
	Logger           *zap.Logger
}

// DefaultCircuitBreakerConfig returns a default circuit breaker configuration
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxFailures:      5,
		ResetTimeout:     60 * time.Second,
		SuccessThreshold: 3,
		Timeout:          30 * time.Second,
		Logger:           zap.NewNop(),
	}
}

// Counts holds the statistics for the circuit breaker
type Counts struct {
	Requests             int
	TotalSuccesses       int
	TotalFailures        int
	ConsecutiveSuccesses int
	ConsecutiveFailures  int
}

// CircuitBreaker implements the circuit breaker pattern
type CircuitBreaker struct {
	config CircuitBreakerConfig
	mutex  sync.RWMutex
	state  CircuitBreakerState
	counts Counts
	expiry time.Time
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		expiry: time.Now(),
	}
}

// Execute executes a function with circuit breaker protection
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if !cb.allowRequest() {
		return fmt.Errorf("circuit breaker %s is OPEN", cb.config.Name)
	}

	if cb.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cb.config.Timeout)
		defer cancel()
	}

	err := fn(ctx)
	cb.recordResult(err == nil)
	return err
}

// ExecuteWithResult executes a function that returns a result with circuit
// breaker protection.
func ExecuteWithResult[T any](ctx context.Context, cb *CircuitBreaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		result, innerErr = fn(ctx)
		return innerErr
	})
	return result, err
}

// State returns the current state of the circuit breaker
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	return cb.state
}

// GetCounts returns the current statistics
func (cb *CircuitBreaker) GetCounts() Counts {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	return cb.counts
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Now().After(cb.expiry) {
			cb.setState(StateHalfOpen)
			return true
		}
		return false
	case StateHalfOpen:
		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordResult(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.counts.Requests++
	if success {
		cb.counts.TotalSuccesses++
		cb.counts.ConsecutiveSuccesses++
		cb.counts.ConsecutiveFailures = 0

		if cb.state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.config.SuccessThreshold {
			cb.setState(StateClosed)
		}
		return
	}

	cb.counts.TotalFailures++
	cb.counts.ConsecutiveFailures++
	cb.counts.ConsecutiveSuccesses = 0

	switch cb.state {
	case StateClosed:
		if cb.counts.ConsecutiveFailures >= cb.config.MaxFailures {
			cb.setState(StateOpen)
			cb.expiry = time.Now().Add(cb.config.ResetTimeout)
		}
	case StateHalfOpen:
		cb.setState(StateOpen)
		cb.expiry = time.Now().Add(cb.config.ResetTimeout)
	}
}

// setState transitions the breaker; callers hold the mutex.
func (cb *CircuitBreaker) setState(next CircuitBreakerState) {
	if cb.state == next {
		return
	}
	prev := cb.state
	cb.state = next
	cb.counts.ConsecutiveSuccesses = 0
	cb.counts.ConsecutiveFailures = 0

	cb.config.Logger.Info("Circuit breaker state changed",
		zap.String("name", cb.config.Name),
		zap.String("from", prev.String()),
		zap.String("to", next.String()))
}
