package service

import "errors"

// ErrNotStarted indicates an operation was attempted before Start.
var ErrNotStarted = errors.New("service not started")
