package retry

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        bool
	Logger        *zap.Logger
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
		Logger:        zap.NewNop(),
	}
}

// RetryableFunc is a function that can be retried
type RetryableFunc func() error

// Retry executes a function with exponential backoff retry logic
func Retry(ctx context.Context, config RetryConfig, fn RetryableFunc) error {
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			if attempt > 1 {
				config.Logger.Info("Operation succeeded after retry",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", config.MaxAttempts))
			}
			return nil
		}

		lastErr = err

		if !IsTemporaryError(err) {
			config.Logger.Warn("Non-retryable error encountered",
				zap.Error(err),
				zap.Int("attempt", attempt))
			return err
		}

		// Don't sleep after the last attempt
		if attempt == config.MaxAttempts {
			break
		}

		delay := calculateDelay(attempt, config)
		config.Logger.Warn("Operation failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", config.MaxAttempts),
			zap.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	config.Logger.Error("Operation failed after all retry attempts",
		zap.Error(lastErr),
		zap.Int("max_attempts", config.MaxAttempts))

	return fmt.Errorf("operation failed after %d attempts: %w", config.MaxAttempts, lastErr)
}

// RetryWithResult executes a function that returns a result with retry logic
func RetryWithResult[T any](ctx context.Context, config RetryConfig, fn func() (T, error)) (T, error) {
	var result T
	err := Retry(ctx, config, func() error {
		var innerErr error
		result, innerErr = fn()
		return innerErr
	})
	return result, err
}

// calculateDelay calculates the delay for the next retry attempt
func calculateDelay(attempt int, config RetryConfig) time.Duration {
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt-1))

	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	if config.Jitter {
		randomBig, err := rand.Int(rand.Reader, big.NewInt(200))
		if err == nil {
			// [-1, 1] scaled to ±10% of the base delay
			randomFloat := (float64(randomBig.Int64()) / 100.0) - 1.0
			delay += delay * 0.1 * randomFloat
		}
	}

	return time.Duration(delay)
}

// IsTemporaryError checks if an error is likely temporary and retryable
func IsTemporaryError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	temporaryPatterns := []string{
		"timeout",
		"connection refused",
		"connection reset",
		"network is unreachable",
		"temporary failure",
		"service unavailable",
		"too many requests",
		"rate limit",
		"server busy",
		"internal server error",
		"bad gateway",
		"gateway timeout",
		"unexpected status code: 5",
		"non-200 response: 5",
	}

	for _, pattern := range temporaryPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
