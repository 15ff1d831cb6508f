package card

import (
	"errors"
	"fmt"
)

// ErrNoSentences indicates a card was requested without any non-empty sentence.
var ErrNoSentences = errors.New("no sentences to mask")

// BuildError reports that no sentence of a card could be masked.
// Last is the error of the final attempt.
type BuildError struct {
	Word      string
	Attempted int
	Last      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building card for %q: no cloze in %d sentence(s): %v", e.Word, e.Attempted, e.Last)
}

func (e *BuildError) Unwrap() error { return e.Last }
