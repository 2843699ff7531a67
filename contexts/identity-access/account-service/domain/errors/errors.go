package errors

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrMissingFields      = errors.New("required fields are missing")
	ErrUnderage           = errors.New("you must be 18 or older")
	ErrConflict           = errors.New("email or username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)
