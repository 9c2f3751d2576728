package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StoreWriteError names the checkout step (or catalog operation) whose write
// against the store failed.
type StoreWriteError struct {
	Step string
	Err  error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

type StoreReadError struct {
	Op  string
	Err error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }

// Validation wraps ErrValidation with a human-readable reason.
func Validation(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}
