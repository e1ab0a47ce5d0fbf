package domain

import "errors"

var (
	// ErrInvalidCredentials covers every bad-credential case: unknown user,
	// wrong password, malformed/forged/expired token. Callers must not be
	// able to tell which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
	ErrUserNotFound  = errors.New("user not found")

	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrSigningKeyMissing = errors.New("token signing key is not configured")

	ErrForbidden       = errors.New("access forbidden")
	ErrTooManyAttempts = errors.New("too many login attempts")

	ErrOrderNotFound     = errors.New("order not found")
	ErrBookNotFound      = errors.New("book not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)
