package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateSerial = errors.New("serial number already in use")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInput    = errors.New("invalid input")
)
