package anki

import (
	"errors"
	"fmt"
)

// ErrUnavailable indicates AnkiConnect could not be reached after retries.
var ErrUnavailable = errors.New("ankiconnect unavailable")

// ActionError is an error reported by AnkiConnect itself in the response envelope.
// These are never retried.
type ActionError struct {
	Action  string
	Message string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("ankiconnect %s: %s", e.Action, e.Message)
}

// transientError marks a transport failure worth another attempt.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}
