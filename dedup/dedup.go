// Package dedup provides a Redis-backed fast path for webhook redelivery
// detection. It is advisory only: the unique index on
// messages.platform_message_id is what actually guarantees at-most-one
// stored row per mid. A nil Filter or a Redis error just means "not seen"
// and lets the database decide.
package dedup

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "bayon:mid:"

// Window is how long a mid is remembered. Meta retries deliveries for far
// less than a day.
const Window = 24 * time.Hour

type Filter struct {
	client *redis.Client
}

// New wraps a Redis client. A nil client yields a filter that never
// reports a mid as seen.
func New(client *redis.Client) *Filter {
	return &Filter{client: client}
}

// Seen reports whether mid was marked inside the window. It does not mark:
// a mid only becomes "seen" once Mark confirms the message row is stored,
// otherwise a transient insert failure would swallow the platform's
// redelivery. Errors degrade to false.
func (f *Filter) Seen(ctx context.Context, mid string) bool {
	if f == nil || f.client == nil || mid == "" {
		return false
	}
	n, err := f.client.Exists(ctx, keyPrefix+mid).Result()
	if err != nil {
		slog.Warn("dedup fast path unavailable, deferring to database", "error", err)
		return false
	}
	return n > 0
}

// Mark remembers mid for the window. Call only once the message row is
// durably stored. Best effort.
func (f *Filter) Mark(ctx context.Context, mid string) {
	if f == nil || f.client == nil || mid == "" {
		return
	}
	if err := f.client.Set(ctx, keyPrefix+mid, 1, Window).Err(); err != nil {
		slog.Warn("dedup mark failed", "mid", mid, "error", err)
	}
}
