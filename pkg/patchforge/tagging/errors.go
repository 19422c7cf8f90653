package tagging

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern reports a tag definition whose pattern does not
	// compile. Nothing is applied when compilation fails, but a pattern
	// that errors mid-match leaves the batch partially applied; the call
	// is not transactional.
	ErrInvalidPattern = errors.New("invalid tag pattern")
	// ErrInsufficientTrainingData reports a parameter-tagging call against
	// a database with fewer tagged patches than the neighbor count.
	ErrInsufficientTrainingData = errors.New("insufficient training data")
)

// InvalidPatternError names the offending definition.
type InvalidPatternError struct {
	Tag     string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("%v: definition %q (%q): %v", ErrInvalidPattern, e.Tag, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// InsufficientTrainingDataError carries the counts needed to act on the
// failure.
type InsufficientTrainingDataError struct {
	Tagged    int // tagged patches available for training
	Neighbors int // requested k
}

func (e *InsufficientTrainingDataError) Error() string {
	return fmt.Sprintf("%v: %d tagged patches, need at least %d", ErrInsufficientTrainingData, e.Tagged, e.Neighbors)
}

func (e *InsufficientTrainingDataError) Unwrap() error { return ErrInsufficientTrainingData }
