package coursestore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a looked up row does not exist. It is an
	// expected outcome and is never wrapped in a StoreError.
	ErrNotFound = errors.New("not found")
	ErrStore    = errors.New("course store failure")
)

type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("course store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStore, e.Err}
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
