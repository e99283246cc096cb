package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	redrepo "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/repo/redis"
)

const checkoutWindow = time.Minute

type WindowStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (redrepo.Window, error)
}

// Limiter caps checkout attempts per buyer in a fixed one-minute window.
type Limiter struct {
	store     WindowStore
	perMinute int
}

func NewLimiter(store WindowStore, perMinute int) *Limiter {
	if perMinute < 0 {
		perMinute = 0
	}

	return &Limiter{
		store:     store,
		perMinute: perMinute,
	}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.perMinute > 0 && l.store != nil
}

// AllowCheckout records an attempt and reports whether it fits the window. When it does
// not, retryAfterSec is the whole number of seconds until the window resets.
func (l *Limiter) AllowCheckout(ctx context.Context, buyerID string) (int64, bool, error) {
	if !l.Enabled() {
		return 0, true, nil
	}
	buyerID = strings.TrimSpace(buyerID)
	if buyerID == "" {
		return 0, false, fmt.Errorf("invalid buyer id")
	}

	window, err := l.store.Hit(ctx, checkoutKey(buyerID), checkoutWindow)
	if err != nil {
		return 0, false, err
	}
	if window.Count > int64(l.perMinute) {
		return ceilSeconds(window.ResetIn), false, nil
	}

	return 0, true, nil
}

func checkoutKey(buyerID string) string {
	return "rate:checkout:min:" + buyerID
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 1
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	return sec
}
