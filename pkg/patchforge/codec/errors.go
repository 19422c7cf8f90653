package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed reports a patch file or chunk that does not follow the
	// family's byte layout.
	ErrMalformed = errors.New("malformed patch data")
	// ErrUnsupportedMode reports an interchange encoding the family does
	// not implement. Callers should treat it as a capability gap, not a bug.
	ErrUnsupportedMode = errors.New("unsupported interchange mode")
	// ErrUnknownFamily reports a format tag with no registered schema.
	ErrUnknownFamily = errors.New("unknown synth family")
)

// Malformedf wraps ErrMalformed with detail about the violation.
func Malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
