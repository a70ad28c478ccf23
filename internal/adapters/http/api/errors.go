package api

import (
	"errors"
	"fmt"
)

// ErrBadRequest marks errors caused by malformed client input.
var ErrBadRequest = errors.New("bad request")

// WrapKind tags a sentinel error with the operation and keeps the
// underlying cause in the message.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %v", op, kind, err)
}

// Wrap tags any error with the operation that raised it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
