package user

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrActivationCodeTaken = errors.New("activation code already in use")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// Login failure reasons, checked in this order.
const (
	ReasonUnknownEmail = "unknown_email"
	ReasonBadPassword  = "bad_password"
	ReasonInactive     = "inactive"
)

// InvalidCredentialsError carries the reason a login was rejected.
// errors.Is(err, ErrInvalidCredentials) holds for every reason.
type InvalidCredentialsError struct {
	Reason string
}

func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials: %s", e.Reason)
}

func (e *InvalidCredentialsError) Is(target error) bool {
	return target == ErrInvalidCredentials
}
