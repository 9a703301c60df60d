package service

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to callers. ErrNotFound and ErrInvalidState are
// non-retriable; ErrStoreUnavailable is retriable with backoff. The engine
// itself never retries.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
