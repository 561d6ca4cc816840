package documents

import (
	"context"
	"time"
)

// DocumentsRepo defines persistence operations for documents.
//
// Get is unscoped so the worker can load a document knowing only its ID;
// the user-facing lookups are scoped to the owner.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	Get(ctx context.Context, documentID string) (Document, error)
	GetByID(ctx context.Context, userId, documentID string) (Document, error)
	ListByUser(ctx context.Context, userId string, limit, offset int) ([]Document, error)
	// UpdateStatus moves a document to status, enforcing the state
	// machine. errorMessage and processedAt replace the stored values.
	UpdateStatus(ctx context.Context, documentID, status, errorMessage string, processedAt *time.Time) error
}
