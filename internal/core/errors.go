package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateFormat  = errors.New("invalid date format")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrStorage            = errors.New("storage failure")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrEmptyName          = errors.New("empty name")
)

// DateFormatError carries the rejected date string.
type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date format %q: want YYYY-MM-DD or YYYY-MM", e.Value)
}

func (e *DateFormatError) Unwrap() error {
	return ErrInvalidDateFormat
}
