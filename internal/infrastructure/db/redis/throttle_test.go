package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
)

func newTestThrottle(t *testing.T, maxAttempts int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, maxAttempts, window), srv
}

func TestLoginThrottle_AllowsUnderLimit(t *testing.T) {
	throttle, _ := newTestThrottle(t, 3, time.Minute)
	ctx := context.Background()

	if err := throttle.Allow(ctx, "alice"); err != nil {
		t.Fatalf("fresh account should be allowed: %v", err)
	}

	_ = throttle.RecordFailure(ctx, "alice")
	_ = throttle.RecordFailure(ctx, "alice")

	if err := throttle.Allow(ctx, "alice"); err != nil {
		t.Fatalf("two failures out of three should still pass: %v", err)
	}
}

func TestLoginThrottle_LocksAtLimit(t *testing.T) {
	throttle, _ := newTestThrottle(t, 2, time.Minute)
	ctx := context.Background()

	_ = throttle.RecordFailure(ctx, "alice")
	_ = throttle.RecordFailure(ctx, "alice")

	if err := throttle.Allow(ctx, "alice"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	// The lockout is per account.
	if err := throttle.Allow(ctx, "bob"); err != nil {
		t.Fatalf("bob should be unaffected: %v", err)
	}
}

func TestLoginThrottle_Reset(t *testing.T) {
	throttle, _ := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	_ = throttle.RecordFailure(ctx, "alice")
	if err := throttle.Allow(ctx, "alice"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected lockout, got %v", err)
	}

	if err := throttle.Reset(ctx, "alice"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := throttle.Allow(ctx, "alice"); err != nil {
		t.Fatalf("expected clean slate after reset: %v", err)
	}
}

func TestLoginThrottle_WindowExpires(t *testing.T) {
	throttle, srv := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	_ = throttle.RecordFailure(ctx, "alice")
	if err := throttle.Allow(ctx, "alice"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected lockout, got %v", err)
	}

	srv.FastForward(2 * time.Minute)

	if err := throttle.Allow(ctx, "alice"); err != nil {
		t.Fatalf("expected lockout to lapse with the window: %v", err)
	}
}
