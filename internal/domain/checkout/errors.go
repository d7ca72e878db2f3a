// internal/domain/checkout/errors.go
package checkout

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned when checkout is attempted with nothing selected
var ErrEmptySelection = errors.New("no items selected for checkout")

// ValidationError reports a missing or invalid customer form field.
// It fails fast, before any pricing or stock work happens.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}
