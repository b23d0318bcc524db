package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrRunNotStarted is returned when an operation needs the run context
	// before StartRun was called.
	ErrRunNotStarted = errors.New("run not started")

	// ErrRunAlreadyStarted is returned by a second StartRun call; the run id
	// is set exactly once per Grid.
	ErrRunAlreadyStarted = errors.New("run already started")
)

// InvalidEnvelopeError flags an envelope that fails validation before
// submission. It indicates a programming error in the caller, not a transient
// condition, and must not be retried.
type InvalidEnvelopeError struct {
	Reason string
}

func (e InvalidEnvelopeError) Error() string {
	return fmt.Sprintf("invalid envelope: %s", e.Reason)
}
