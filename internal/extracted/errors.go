package extracted

import "errors"

var (
	// ErrNotFound indicates no extraction exists for the document.
	ErrNotFound = errors.New("extracted info not found")
	// ErrInvalidInput indicates a malformed update request.
	ErrInvalidInput = errors.New("invalid input")
)
