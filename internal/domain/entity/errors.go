package entity

import (
	"errors"
	"fmt"
)

// ErrValidationFailed matches every *ValidationError via errors.Is.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError names the input field that was rejected, such as a
// window date or a record field the warehouse requires.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
