package ports

import "context"

// LoginThrottle limits failed login attempts per account.
type LoginThrottle interface {
	// Allow returns domain.ErrTooManyAttempts once the failure budget for
	// username is exhausted.
	Allow(ctx context.Context, username string) error
	// RecordFailure counts one failed attempt against username.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
