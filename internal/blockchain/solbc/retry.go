// internal/blockchain/solbc/retry.go
package solbc

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	DefaultRetries    = 3
	DefaultRetryDelay = 500 * time.Millisecond
)

// Retrier выполняет RPC-вызовы с экспоненциальным backoff
type Retrier struct {
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
}

func NewRetrier(logger *zap.Logger, maxRetries int, retryDelay time.Duration) *Retrier {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Retrier{logger: logger, maxRetries: maxRetries, retryDelay: retryDelay}
}

// Do повторяет op до успеха, постоянной ошибки или исчерпания maxRetries
// дополнительных попыток
func (r *Retrier) Do(ctx context.Context, name string, op func() (*TokenMetadata, error)) (*TokenMetadata, error) {
	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = r.retryDelay
	backoffPolicy.MaxInterval = r.retryDelay * 10

	notify := func(err error, duration time.Duration) {
		r.logger.Info("retrying after error",
			zap.String("operation", name),
			zap.Error(err),
			zap.Duration("backoff", duration))
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(backoffPolicy),
		backoff.WithMaxTries(uint(r.maxRetries+1)),
		backoff.WithNotify(notify))
}

func permanent(err error) error {
	return backoff.Permanent(err)
}
