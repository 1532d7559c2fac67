package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes
const (
	ErrCodeEntryNotFound    = "LIB001"
	ErrCodeBookNotFound     = "LIB002"
	ErrCodeAlreadyInLibrary = "LIB003"
	ErrCodeInvalidStatus    = "LIB004"
	ErrCodeInvalidProgress  = "LIB005"
)

// Errors
var (
	ErrEntryNotFound       = errors.New("library entry not found")
	ErrBookNotFound        = errors.New("book not found")
	ErrAlreadyInLibrary    = errors.New("book already in library")
	ErrInvalidStatus       = errors.New("invalid reading status")
	ErrInvalidPageProgress = errors.New("invalid page progress")
)

// LibraryError custom error type
type LibraryError struct {
	Code    string
	Message string
	Err     error
}

func (e *LibraryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *LibraryError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewEntryNotFoundError() *LibraryError {
	return &LibraryError{
		Code:    ErrCodeEntryNotFound,
		Message: "Library entry not found",
		Err:     ErrEntryNotFound,
	}
}

func NewBookNotFoundError() *LibraryError {
	return &LibraryError{
		Code:    ErrCodeBookNotFound,
		Message: "Book not found",
		Err:     ErrBookNotFound,
	}
}

func NewAlreadyInLibraryError() *LibraryError {
	return &LibraryError{
		Code:    ErrCodeAlreadyInLibrary,
		Message: "Book already in library",
		Err:     ErrAlreadyInLibrary,
	}
}

func NewInvalidStatusError() *LibraryError {
	statuses := make([]string, len(ValidStatuses))
	for i, s := range ValidStatuses {
		statuses[i] = string(s)
	}
	return &LibraryError{
		Code:    ErrCodeInvalidStatus,
		Message: fmt.Sprintf("Invalid status. Must be one of: %s", strings.Join(statuses, ", ")),
		Err:     ErrInvalidStatus,
	}
}

func NewInvalidProgressError(message string) *LibraryError {
	return &LibraryError{
		Code:    ErrCodeInvalidProgress,
		Message: message,
		Err:     ErrInvalidPageProgress,
	}
}
