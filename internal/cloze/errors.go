package cloze

import (
	"errors"
	"fmt"
)

// ErrNoMatch indicates that no strategy could mask the word in the sentence.
var ErrNoMatch = errors.New("word not found in sentence")

// Error reports a failed cloze construction for one word/sentence pair.
// Cause, when set, is the error returned by the generative fallback.
type Error struct {
	Word     string
	Sentence string
	Cause    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("could not create cloze for %q in sentence %q", e.Word, e.Sentence)
	if e.Cause != nil {
		msg += ": fallback: " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrNoMatch}
	}
	return []error{ErrNoMatch, e.Cause}
}
