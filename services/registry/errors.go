package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a lookup miss. It is recoverable: the identity
// resolver provisions on it, the API boundary maps it to a 404. It must
// never be conflated with a backing-store failure.
var ErrNotFound = errors.New("registry: not found")

// StoreError wraps a backing-store failure. It is fatal to the current
// operation and always propagated.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("registry store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a lookup miss rather than a store failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
