package oerror

import "fmt"

// OomphError is the error type returned by every package in this module for
// failures that do not wrap another error.
type OomphError struct {
	Err string
}

// New formats an OomphError in the manner of fmt.Sprintf.
func New(format string, args ...any) *OomphError {
	if len(args) == 0 {
		return &OomphError{Err: format}
	}
	return &OomphError{Err: fmt.Sprintf(format, args...)}
}

func (e *OomphError) Error() string {
	return e.Err
}
