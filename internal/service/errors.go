package service

import "errors"

// ErrInvalidRequest is returned when a required field is missing or malformed.
// Handlers surface it as 400.
var ErrInvalidRequest = errors.New("invalid request")
