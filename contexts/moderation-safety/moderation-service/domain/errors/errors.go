package errors

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrMissingFields     = errors.New("targetType, targetId and reason are required")
	ErrInvalidTargetType = errors.New("invalid target type")
	ErrBlockedContent    = errors.New("report contains blocked words")
	ErrUserNotFound      = errors.New("user not found")
	ErrForbidden         = errors.New("access denied")
	ErrInvalidStatus     = errors.New("invalid report status")
	ErrReportNotFound    = errors.New("report not found")
)
