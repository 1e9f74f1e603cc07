package prefs

import (
	"errors"
	"fmt"
)

// InvalidArgumentError reports a caller contract violation: a blank context
// or a non-positive limit. Degenerate-but-valid inputs (an empty record
// snapshot, tokens that match nothing) never produce errors.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// IsInvalidArgument reports whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}
