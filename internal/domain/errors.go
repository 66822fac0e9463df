package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidState         = errors.New("invalid state")
	ErrInvalidInterval      = errors.New("invalid booking interval")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrSelfBookingForbidden = errors.New("owner cannot book own item")
	ErrUnavailable          = errors.New("item is not available")
	ErrConflict             = errors.New("conflict")
	ErrCommentNotAllowed    = errors.New("comment not allowed")
	ErrUnsupportedState     = errors.New("unsupported state")
	ErrDuplicateEmail       = errors.New("email already registered")
)

// UnsupportedStateError keeps the rejected listing token for the client message.
type UnsupportedStateError struct {
	State string
}

func (e *UnsupportedStateError) Error() string {
	return fmt.Sprintf("Unknown state: %s", e.State)
}

func (e *UnsupportedStateError) Is(target error) bool {
	return target == ErrUnsupportedState
}
