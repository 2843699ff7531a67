package errors

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("dashboard is reserved to creators")
)
