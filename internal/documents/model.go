package documents

import "time"

// Document lifecycle statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document represents an uploaded document owned by a user.
type Document struct {
	ID               string
	UserID           string
	FileName         string
	OriginalFilename string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	Status           string
	ErrorMessage     string
	UploadedAt       time.Time
	ProcessedAt      *time.Time
}

// allowedTransitions is the document status state machine. A failed
// document may re-enter processing when its extraction is retried.
var allowedTransitions = map[string][]string{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusFailed:     {StatusProcessing},
}

// CanTransition reports whether the status state machine permits moving
// from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions besides
// an explicit retry.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}
