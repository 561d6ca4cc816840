package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"cv-backend/internal/documents"
	"cv-backend/internal/extract"
	"cv-backend/internal/extracted"
	"cv-backend/internal/parse"
	"cv-backend/internal/shared/metrics"
	"cv-backend/internal/shared/storage/object"
	"cv-backend/internal/shared/telemetry"
	"cv-backend/internal/users"
)

// Service runs the extraction pipeline: load the stored document, pull its
// raw text, parse structured fields, persist them, and settle the document
// status. The stored binary is released once the run reaches a terminal
// status either way.
type Service struct {
	Docs      documents.DocumentsRepo
	Store     object.ObjectStore
	Extracted *extracted.Service
	Users     *users.Service
	Parser    *parse.Parser
}

// ProcessDocument drives one document from pending (or failed, on retry) to
// a terminal status. Any panic inside the run is converted into a failed
// document rather than a crashed worker.
func (s *Service) ProcessDocument(ctx context.Context, documentID string) (err error) {
	startedAt := time.Now().UTC()

	defer func() {
		if r := recover(); r != nil {
			perr := fmt.Errorf("panic: %v", r)
			s.failDocument(ctx, documentID, "", perr, &startedAt)
			err = perr
		}
	}()

	if upErr := s.Docs.UpdateStatus(ctx, documentID, documents.StatusProcessing, "", nil); upErr != nil {
		telemetry.Error("ingest.start_failed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"document_id": documentID,
			"error":       upErr.Error(),
		})
		return upErr
	}
	metrics.IncIngestStarted()
	telemetry.Info("document.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       documentID,
		"status":            documents.StatusProcessing,
		"status_transition": "pending->processing",
	})

	doc, err := s.Docs.Get(ctx, documentID)
	if err != nil {
		err = fmt.Errorf("document lookup id=%s: %w", documentID, err)
		s.failDocument(ctx, documentID, "", err, &startedAt)
		return err
	}

	data, err := s.loadObject(ctx, doc.StorageKey)
	if err != nil {
		err = fmt.Errorf("load object key=%s: %w", doc.StorageKey, err)
		s.failDocument(ctx, documentID, doc.StorageKey, err, &startedAt)
		return err
	}

	res, err := extract.FromBytes(data, doc.MimeType)
	if err != nil {
		s.failDocument(ctx, documentID, doc.StorageKey, err, &startedAt)
		return err
	}
	if res.Degraded {
		metrics.IncIngestDegraded()
		telemetry.Warn("ingest.degraded", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"document_id": documentID,
			"mime_type":   doc.MimeType,
		})
	}

	resume := s.Parser.Parse(res.Text)

	if err := s.Extracted.Save(ctx, doc.ID, resume); err != nil {
		err = fmt.Errorf("save extraction: %w", err)
		s.failDocument(ctx, documentID, doc.StorageKey, err, &startedAt)
		return err
	}

	// Profile creation is a side effect; a failure here must not undo a
	// successful extraction.
	if s.Users != nil {
		if _, uerr := s.Users.EnsureFromResume(ctx, resume.FullName, resume.Email); uerr != nil {
			telemetry.Warn("ingest.user_upsert_failed", map[string]any{
				"request_id":  requestIDFromContext(ctx),
				"document_id": documentID,
				"error":       uerr.Error(),
			})
		}
	}

	completedAt := time.Now().UTC()
	if err := s.Docs.UpdateStatus(ctx, documentID, documents.StatusCompleted, "", &completedAt); err != nil {
		err = fmt.Errorf("set completed: %w", err)
		s.failDocument(ctx, documentID, doc.StorageKey, err, &startedAt)
		return err
	}

	metrics.IncIngestCompleted()
	metrics.ObserveIngestDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("document.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       documentID,
		"status":            documents.StatusCompleted,
		"status_transition": "processing->completed",
		"degraded":          res.Degraded,
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})

	s.releaseObject(ctx, documentID, doc.StorageKey)
	return nil
}

func (s *Service) loadObject(ctx context.Context, storageKey string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// failDocument funnels every failure path into a failed status with a
// classified, sanitized error message.
func (s *Service) failDocument(ctx context.Context, documentID, storageKey string, err error, startedAt *time.Time) {
	code := classifyFailure(err)
	msg := code + ": " + sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Docs.UpdateStatus(context.Background(), documentID, documents.StatusFailed, msg, &completedAt); updateErr != nil {
		telemetry.Error("ingest.fail_update_failed", map[string]any{
			"document_id": documentID,
			"error":       updateErr.Error(),
			"orig_error":  sanitizeError(err),
		})
	}
	metrics.IncIngestFailed()
	if startedAt != nil {
		metrics.ObserveIngestDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("document.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       documentID,
		"status":            documents.StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
	if storageKey != "" {
		s.releaseObject(ctx, documentID, storageKey)
	}
}

// releaseObject deletes the stored binary after a terminal status. The
// delete is best effort; the document record stays authoritative.
func (s *Service) releaseObject(ctx context.Context, documentID, storageKey string) {
	if storageKey == "" {
		return
	}
	if err := s.Store.Delete(ctx, storageKey); err != nil {
		telemetry.Warn("ingest.release_failed", map[string]any{
			"document_id": documentID,
			"storage_key": storageKey,
			"error":       err.Error(),
		})
	}
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}
