package domain

import "errors"

// ErrOutOfRange is returned when a goto targets an index outside the history log.
var ErrOutOfRange = errors.New("history index out of range")

// ErrInvalidPayload is returned when a reserved action carries a payload of the wrong type.
var ErrInvalidPayload = errors.New("invalid action payload")

// ErrInvalidConfig is returned when an enhancer option has the wrong type.
// Callers fall back to the default configuration when they see it.
var ErrInvalidConfig = errors.New("invalid enhancer configuration")
