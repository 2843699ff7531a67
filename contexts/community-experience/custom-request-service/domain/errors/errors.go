package errors

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrMissingFields       = errors.New("creatorId, prompt and price are required")
	ErrBlockedContent      = errors.New("request contains blocked words")
	ErrOffTopic            = errors.New("request does not match the allowed topics")
	ErrUserNotFound        = errors.New("user not found")
	ErrForbidden           = errors.New("access denied")
	ErrCreatorNotFound     = errors.New("creator not found")
	ErrInvalidPrice        = errors.New("price must be positive")
	ErrRequestNotFound     = errors.New("request not found")
	ErrInvalidTransition   = errors.New("request can no longer be modified")
	ErrRequestExpired      = errors.New("request has expired")
	ErrDeliveryURLRequired = errors.New("delivery url is required")
	ErrUseCheckout         = errors.New("use /api/stripe/checkout/request to create a paid request")
)
