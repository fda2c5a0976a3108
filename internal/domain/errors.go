package domain

import "errors"

var (
	ErrInvalidOdds             = errors.New("invalid odds")
	ErrInvalidPrice            = errors.New("price must be strictly between 0 and 1")
	ErrInvalidContracts        = errors.New("contracts must be positive")
	ErrDegenerateProbabilities = errors.New("probabilities sum to zero or less")

	ErrNotFound       = errors.New("not found")
	ErrRateLimited    = errors.New("rate limited")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrQuotaExhausted = errors.New("request quota exhausted")
	ErrLockHeld       = errors.New("lock held")
)
