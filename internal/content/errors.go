package content

import "fmt"

// RemoteError describes a failed remote generation attempt.
// It is logged by Fallback and never returned from Generator methods.
type RemoteError struct {
	Section Section
	Status  int
	Message string
	Cause   error
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("remote generation failed for %s", e.Section)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}
