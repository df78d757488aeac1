package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidInput = errors.New("invalid input")
	ErrPersist      = errors.New("persist failed")
	ErrUnsupported  = errors.New("unsupported")
	ErrClosed       = errors.New("closed")
)
