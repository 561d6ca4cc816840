package documents

import "errors"

var (
	// ErrNotFound indicates the document does not exist or is not visible
	// to the caller.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput indicates a malformed upload or request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedType indicates a MIME type outside the accepted set.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrInvalidTransition indicates a status change the state machine
	// does not permit.
	ErrInvalidTransition = errors.New("invalid status transition")
)
