package extracted

import (
	"time"

	"cv-backend/internal/parse"
)

// Info is the structured extraction stored for a document. Exactly one row
// exists per document; reprocessing replaces the previous extraction.
type Info struct {
	ID         string
	DocumentID string
	Resume     parse.Resume
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
