package apperr

import "errors"

var (
	// ErrNotFound covers every "nothing there" outcome: no candidate install
	// location exists, no history logs are present, or a track is not in the
	// cached library.
	ErrNotFound = errors.New("not found")
)
