package extracted

import "context"

// Repo defines persistence operations for extracted info.
type Repo interface {
	// Upsert inserts the extraction for a document, replacing any
	// previous one.
	Upsert(ctx context.Context, info Info) error
	GetByDocument(ctx context.Context, documentID string) (Info, error)
}
