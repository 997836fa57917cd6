package common

import (
	"errors"
	"fmt"
)

var (
	ErrorInvalidValue     = errors.New("invalid value")
	ErrorLengthMismatch   = errors.New("length mismatch")
	ErrorNonPositive      = errors.New("values must be positive")
	ErrorInsufficientData = errors.New("insufficient uncensored observations")
	ErrorNoValidIntervals = errors.New("no valid equivalence intervals")
	ErrorMalformedBounds  = errors.New("malformed interval bounds")
	ErrorUnknownOption    = errors.New("unknown option")
	ErrorFitFailed        = errors.New("model fit failed")
)

// ValidationError is returned when an input is rejected before or during estimation.
// It unwraps to one of the sentinel errors above.
type ValidationError struct {
	Op     string
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidationError(op string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Op:     op,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}

// IsValidation reports whether err carries a ValidationError anywhere in its chain.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
