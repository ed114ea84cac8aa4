package messenger

import (
	"context"
	"log/slog"
	"time"
)

const (
	// MaxAttempts bounds delivery attempts per reply.
	MaxAttempts = 3

	baseDelay         = 1 * time.Second
	maxDelay          = 4 * time.Second
	rateLimitCooldown = 60 * time.Second
)

// SendFunc is one delivery attempt.
type SendFunc func() (*SendResult, error)

// Retrier runs a SendFunc with exponential backoff and a flat cooldown
// for rate limiting. It returns the last attempt's result verbatim.
type Retrier struct {
	logger *slog.Logger

	// Sleep is swappable so tests do not wait out real backoff.
	Sleep func(ctx context.Context, d time.Duration) error
}

func NewRetrier(logger *slog.Logger) *Retrier {
	return &Retrier{
		logger: logger,
		Sleep:  sleepCtx,
	}
}

// Send calls fn up to MaxAttempts times. A rate-limited attempt waits the
// flat cooldown without consuming backoff growth; any other failure waits
// 1s, 2s, 4s (capped). No wait follows the final attempt.
func (r *Retrier) Send(ctx context.Context, fn SendFunc) (*SendResult, error) {
	delay := baseDelay
	var lastErr error

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == MaxAttempts {
			break
		}

		wait := delay
		if IsRateLimited(err) {
			wait = rateLimitCooldown
		} else {
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
		}

		r.logger.Warn("send attempt failed, retrying",
			"attempt", attempt,
			"next_delay", wait.String(),
			"error", err,
		)
		if err := r.Sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	r.logger.Error("send retries exhausted",
		"attempts", MaxAttempts,
		"error", lastErr,
	)
	return nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
