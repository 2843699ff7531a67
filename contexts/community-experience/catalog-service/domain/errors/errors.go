package errors

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidFile      = errors.New("files require url, type and a non-negative price")
	ErrForbidden        = errors.New("only creators can publish content")
	ErrCreatorSuspended = errors.New("creator profile is temporarily suspended")
	ErrContentNotFound  = errors.New("content not found")
	ErrCreatorNotFound  = errors.New("creator not found")
	ErrUserNotFound     = errors.New("user not found")
)
