package usecase

import "time"

const (
	// DefaultLockWaitTimeout bounds how long a transfer may wait for and hold
	// account locks before it is abandoned.
	DefaultLockWaitTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
