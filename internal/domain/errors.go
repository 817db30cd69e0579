package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidDonorID  = errors.New("invalid donor id")
	ErrProviderFailure = errors.New("provider failure")
)
