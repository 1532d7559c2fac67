package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeUserNotFound       = "USR001"
	ErrCodeDuplicateUser      = "USR002"
	ErrCodeInvalidCredentials = "USR003"
	ErrCodeInvalidInput       = "USR004"
)

// Errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserError custom error type
type UserError struct {
	Code    string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewUserNotFoundError() *UserError {
	return &UserError{
		Code:    ErrCodeUserNotFound,
		Message: "User not found",
		Err:     ErrUserNotFound,
	}
}

func NewDuplicateUserError() *UserError {
	return &UserError{
		Code:    ErrCodeDuplicateUser,
		Message: "Username or email already exists",
		Err:     ErrDuplicateUser,
	}
}

func NewInvalidCredentialsError() *UserError {
	return &UserError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid credentials",
		Err:     ErrInvalidCredentials,
	}
}

func NewInvalidInputError(message string) *UserError {
	return &UserError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
