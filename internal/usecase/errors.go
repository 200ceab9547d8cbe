package usecase

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrQuotaExceeded   = errors.New("daily swipe limit reached")
	ErrMatchNotFound   = errors.New("no match found between the specified users")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInternal        = errors.New("internal error")
)
