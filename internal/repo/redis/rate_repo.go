package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Window is the state of one fixed counting window after a hit.
type Window struct {
	Count   int64
	ResetIn time.Duration
}

type RateRepo struct {
	client *goredis.Client
}

func NewRateRepo(client *goredis.Client) *RateRepo {
	return &RateRepo{client: client}
}

// Hit counts one event in the window stored at key, starting the window on the first hit.
func (r *RateRepo) Hit(ctx context.Context, key string, window time.Duration) (Window, error) {
	if r.client == nil {
		return Window{}, fmt.Errorf("redis client is nil")
	}
	if key == "" || window <= 0 {
		return Window{}, fmt.Errorf("invalid rate window payload")
	}

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return Window{}, fmt.Errorf("increment rate key: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return Window{}, fmt.Errorf("set rate key ttl: %w", err)
		}
		return Window{Count: count, ResetIn: window}, nil
	}

	ttl, err := r.client.PTTL(ctx, key).Result()
	if err != nil {
		return Window{}, fmt.Errorf("read rate key ttl: %w", err)
	}
	if ttl < 0 {
		// Key lost its expiry; restart the window.
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return Window{}, fmt.Errorf("repair rate key ttl: %w", err)
		}
		ttl = window
	}

	return Window{Count: count, ResetIn: ttl}, nil
}
