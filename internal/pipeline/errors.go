package pipeline

import "errors"

var (
	// ErrHalted is returned by Run when an item hit an unrecoverable failure
	// and the remaining items were left untouched.
	ErrHalted = errors.New("run halted")

	// ErrReviewAborted is returned by a Reviewer when the user abandons the review.
	ErrReviewAborted = errors.New("review aborted")

	errNoWord = errors.New("could not extract a word from the entry")
)
