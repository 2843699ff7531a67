package errors

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrUserNotFound         = errors.New("user not found")
	ErrSubscriptionRequired = errors.New("subscription required for chat")
	ErrCreatorNotFound      = errors.New("creator not found")
	ErrSelfChat             = errors.New("cannot open a chat with yourself")
	ErrChatNotFound         = errors.New("chat not found")
	ErrForbidden            = errors.New("forbidden")
	ErrEmptyMessage         = errors.New("message is empty")
	ErrBlockedContent       = errors.New("message contains blocked words")
)
