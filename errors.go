package rebalance

import (
	"errors"
	"strings"
)

var (
	ErrInvalidNumber     = errors.New("invalid number")
	ErrOutOfRange        = errors.New("value out of range")
	ErrEmptyName         = errors.New("asset name cannot be empty")
	ErrDuplicateName     = errors.New("an asset with this name already exists")
	ErrDuplicateID       = errors.New("an asset with this id already exists")
	ErrUnknownAsset      = errors.New("unknown asset")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)

// FieldError is a single rejected field of a Draft.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field rejected while resolving a Draft.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "invalid asset: " + strings.Join(msgs, ", ")
}

// Unwrap makes errors.Is(err, ErrOutOfRange) or ErrInvalidNumber work on a
// validation error.
func (e *ValidationError) Unwrap() []error {
	var errs []error
	for _, f := range e.Fields {
		switch f.Message {
		case msgNotANumber:
			errs = append(errs, ErrInvalidNumber)
		case msgRequired:
			if f.Field == "name" {
				errs = append(errs, ErrEmptyName)
			} else {
				errs = append(errs, ErrInvalidNumber)
			}
		default:
			errs = append(errs, ErrOutOfRange)
		}
	}
	return errs
}
