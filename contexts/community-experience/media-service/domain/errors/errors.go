package errors

import "errors"

var (
	ErrFileMissing     = errors.New("file is missing")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrForbidden       = errors.New("creator account required")
	ErrUserNotFound    = errors.New("user not found")
)
