package models

import (
	"errors"

	"github.com/shashiranjanraj/stockroom/pkg/validate"
)

// ErrDuplicateName is wrapped by the ValidationError returned when the store
// rejects an insert because another product already has the name.
var ErrDuplicateName = errors.New("duplicate product name")

// ValidationError reports every field rule a product violated.
type ValidationError struct {
	Fields validate.Errors
	cause  error
}

func (e *ValidationError) Error() string {
	return "Product validation failed: " + e.Fields.Error()
}

func (e *ValidationError) Unwrap() error { return e.cause }

// NewDuplicateNameError builds the error surfaced for a unique-index conflict.
func NewDuplicateNameError(name string, cause error) *ValidationError {
	return &ValidationError{
		Fields: validate.Errors{{
			Field:   "name",
			Rule:    "unique",
			Message: "Name must be unique",
			Value:   name,
		}},
		cause: errors.Join(ErrDuplicateName, cause),
	}
}

// LookupError is returned for identifiers that cannot name a product.
type LookupError struct {
	ID  string
	Err error
}

func (e *LookupError) Error() string {
	return `Cast to ObjectId failed for value "` + e.ID + `" (type string) at path "_id" for model "Product"`
}

func (e *LookupError) Unwrap() error { return e.Err }
