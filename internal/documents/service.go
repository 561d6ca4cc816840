package documents

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"cv-backend/internal/extract"
	"cv-backend/internal/queue"
	"cv-backend/internal/shared/storage/object"
	"cv-backend/internal/shared/telemetry"
)

// asyncProcessTimeout bounds an inline pipeline run started from an upload.
const asyncProcessTimeout = 2 * time.Minute

// Processor runs the extraction pipeline for a stored document.
type Processor interface {
	ProcessDocument(ctx context.Context, documentID string) error
}

// ExtractionLookup reports parsed contact fields for a processed document.
type ExtractionLookup interface {
	ContactFields(ctx context.Context, documentID string) (fullName, email string, ok bool)
}

// Service contains business logic for documents. When Queue is set,
// processing is handed to the worker through SQS; otherwise the pipeline
// runs inline on a background goroutine.
type Service struct {
	Store           object.ObjectStore
	Repo            DocumentsRepo
	Queue           queue.Client
	Pipeline        Processor
	Extractions     ExtractionLookup
	StorageProvider string
}

// Upload saves the file to object storage, records the document as pending,
// and dispatches it for processing.
func (s *Service) Upload(ctx context.Context, userId, fileName, mimeType, requestID string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}
	if !extract.IsSupportedMimeType(mimeType) {
		return Document{}, ErrUnsupportedType
	}

	storageKey, size, detected, err := s.Store.Save(ctx, userId, fileName, r)
	if err != nil {
		return Document{}, err
	}
	if mimeType == "" {
		mimeType = detected
	}

	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userId,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.StorageProvider,
		StorageKey:      storageKey,
		Status:          StatusPending,
		UploadedAt:      time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		// The document row is the source of truth; without it the stored
		// object is unreachable, so release it.
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Error("documents.orphan_cleanup_failed", map[string]any{
				"storage_key": storageKey,
				"error":       delErr.Error(),
			})
		}
		return Document{}, err
	}

	s.dispatch(ctx, doc.ID, requestID)
	return doc, nil
}

// ContactSummary returns the extracted name and email for a completed
// document, when an extraction exists.
func (s *Service) ContactSummary(ctx context.Context, doc Document) (string, string, bool) {
	if s.Extractions == nil || doc.Status != StatusCompleted {
		return "", "", false
	}
	return s.Extractions.ContactFields(ctx, doc.ID)
}

// List returns the user's documents, newest first.
func (s *Service) List(ctx context.Context, userId string, limit, offset int) ([]Document, error) {
	return s.Repo.ListByUser(ctx, userId, limit, offset)
}

// Get returns one of the user's documents.
func (s *Service) Get(ctx context.Context, userId, documentID string) (Document, error) {
	return s.Repo.GetByID(ctx, userId, documentID)
}

// Retry re-dispatches a failed document. Only failed documents are
// retryable; everything else is either in flight or already done.
func (s *Service) Retry(ctx context.Context, userId, documentID, requestID string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, userId, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.Status != StatusFailed {
		return Document{}, ErrInvalidTransition
	}
	s.dispatch(ctx, doc.ID, requestID)
	return doc, nil
}

func (s *Service) dispatch(ctx context.Context, documentID, requestID string) {
	if s.Queue != nil {
		msg := queue.Message{
			DocumentID: documentID,
			RequestID:  requestID,
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		err := s.Queue.Send(ctx, msg)
		if err == nil {
			telemetry.Info("documents.enqueued", map[string]any{
				"document_id": documentID,
				"request_id":  requestID,
			})
			return
		}
		// Fall through to inline processing so the upload still makes
		// progress.
		telemetry.Error("documents.enqueue_failed", map[string]any{
			"document_id": documentID,
			"request_id":  requestID,
			"error":       err.Error(),
		})
	}
	if s.Pipeline == nil {
		telemetry.Error("documents.no_dispatch_target", map[string]any{
			"document_id": documentID,
		})
		return
	}
	go s.processAsync(documentID, requestID)
}

func (s *Service) processAsync(documentID, requestID string) {
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("documents.process_panic", map[string]any{
				"document_id": documentID,
				"panic":       rec,
			})
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), asyncProcessTimeout)
	defer cancel()

	if err := s.Pipeline.ProcessDocument(ctx, documentID); err != nil {
		telemetry.Error("documents.process_failed", map[string]any{
			"document_id": documentID,
			"request_id":  requestID,
			"error":       err.Error(),
		})
	}
}
