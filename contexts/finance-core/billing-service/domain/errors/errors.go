package errors

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrContentIDRequired   = errors.New("contentId is required")
	ErrUserNotFound        = errors.New("user not found")
	ErrContentNotFound     = errors.New("content not found")
	ErrPaymentRequired     = errors.New("direct activation is disabled; use checkout")
	ErrPriceNotConfigured  = errors.New("checkout price is not configured")
	ErrInvalidPrice        = errors.New("content has no valid price")
	ErrIdempotencyConflict = errors.New("idempotency key already used with different payload")
)
