package storage

import "errors"

var (
	ErrNoConnection = errors.New("can't establish connection to db")

	ErrInternal = errors.New("internal error")
)
