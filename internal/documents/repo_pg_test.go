package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateDefaultsStatusToPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := Document{
		ID:         "doc-1",
		UserID:     "user-1",
		FileName:   "resume.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  1234,
		StorageKey: "user-1/resume.pdf",
		UploadedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.UserID,
			doc.FileName,
			doc.FileName, // original_filename falls back to file_name
			doc.MimeType,
			doc.SizeBytes,
			"local",
			sqlmock.AnyArg(), // storage_key
			StatusPending,
			doc.UploadedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScansNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	uploadedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	processedAt := uploadedAt.Add(3 * time.Second)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "file_name", "original_filename", "mime_type",
		"size_bytes", "storage_provider", "storage_key", "status",
		"error_message", "uploaded_at", "processed_at",
	}).AddRow(
		"doc-1", "user-1", "resume.pdf", "My Resume.pdf", "application/pdf",
		int64(1234), "s3", "user-1/resume.pdf", StatusFailed,
		"text extraction failed", uploadedAt, processedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("user-1", "doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.Status != StatusFailed {
		t.Fatalf("status = %q, want %q", doc.Status, StatusFailed)
	}
	if doc.ErrorMessage != "text extraction failed" {
		t.Fatalf("errorMessage = %q", doc.ErrorMessage)
	}
	if doc.ProcessedAt == nil || !doc.ProcessedAt.Equal(processedAt) {
		t.Fatalf("processedAt = %v, want %v", doc.ProcessedAt, processedAt)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("user-1", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "user-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoUpdateStatusTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE documents").
		WithArgs(StatusProcessing, nil, nil, "doc-1", StatusFailed, StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(context.Background(), "doc-1", StatusProcessing, "", nil); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusRejectsInvalidTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE documents").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM documents").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(StatusCompleted))

	err = repo.UpdateStatus(context.Background(), "doc-1", StatusCompleted, "", nil)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestPGRepoUpdateStatusMissingDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE documents").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM documents").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	err = repo.UpdateStatus(context.Background(), "missing", StatusProcessing, "", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoUpdateStatusUnknownTarget(t *testing.T) {
	repo := &PGRepo{}
	err := repo.UpdateStatus(context.Background(), "doc-1", "archived", "", nil)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}
