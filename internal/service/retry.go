package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/linemk/agri-market/internal/clients/marketplace"
)

// RetryPolicy - ограниченный повтор с фиксированной задержкой, без джиттера.
// Нужен только для того, чтобы пережить задержку репликации на стороне upstream.
type RetryPolicy struct {
	Attempts int           // повторов сверх первой попытки
	Delay    time.Duration // пауза между попытками
}

// Do повторяет fn, пока ошибка retryable (404, 5xx) и попытки не кончились.
func (p RetryPolicy) Do(ctx context.Context, log *slog.Logger, fn func(ctx context.Context) error) error {
	if p.Attempts <= 0 {
		return fn(ctx)
	}
	delay := p.Delay
	if delay <= 0 {
		// NewConstant паникует на нулевой задержке
		delay = time.Nanosecond
	}

	var (
		attempt int
		lastErr error
	)
	inner := retry.WithMaxRetries(uint64(p.Attempts), retry.NewConstant(delay))
	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		next, stop := inner.Next()
		if !stop {
			attempt++
			log.Warn("retrying upstream call",
				slog.Int("attempt", attempt),
				slog.Duration("delay", next),
				slog.Any("error", lastErr),
			)
		}
		return next, stop
	})

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && marketplace.IsRetryable(err) {
			lastErr = err
			return retry.RetryableError(err)
		}
		return err
	})
}
