package tos

import "fmt"

// InvalidRequestError reports an AllocationRequest the allocator refuses to
// process. The message is safe to show inline in the form.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid allocation request: %s", e.Reason)
}

func invalid(format string, args ...interface{}) error {
	return &InvalidRequestError{Reason: fmt.Sprintf(format, args...)}
}
