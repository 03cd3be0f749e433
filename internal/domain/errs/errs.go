package errs

import "errors"

var (
	ErrInvalidMessage = errors.New("invalid message")
	ErrInternal       = errors.New("internal error")
)
