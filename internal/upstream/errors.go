package upstream

import (
	"errors"
	"fmt"
)

// ErrUnavailable matches every failure of a required collaborator
var ErrUnavailable = errors.New("upstream unavailable")

// Error describes a failed collaborator call. StatusCode is zero when no
// response was received (network failure, timeout, unreadable body).
type Error struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrUnavailable
}
