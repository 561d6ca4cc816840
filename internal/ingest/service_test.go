package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cv-backend/internal/documents"
	"cv-backend/internal/extract"
	"cv-backend/internal/extracted"
	"cv-backend/internal/parse"
	"cv-backend/internal/shared/storage/object"
	"cv-backend/internal/shared/storage/object/local"
	"cv-backend/internal/users"
)

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>jane.doe@example.com</w:t></w:r></w:p>
    <w:p><w:r><w:t>Austin, TX</w:t></w:r></w:p>
    <w:p><w:r><w:t>Skills</w:t></w:r></w:p>
    <w:p><w:r><w:t>Python, Go, Docker</w:t></w:r></w:p>
  </w:body>
</w:document>`

func buildDocx(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(sampleDocumentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

type testEnv struct {
	svc   *Service
	docs  *documents.MemoryRepo
	infos *extracted.MemoryRepo
	users *users.MemoryRepo
	store object.ObjectStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	docs := documents.NewMemoryRepo()
	infos := extracted.NewMemoryRepo()
	userRepo := users.NewMemoryRepo()
	store := local.New(t.TempDir())

	svc := &Service{
		Docs:      docs,
		Store:     store,
		Extracted: &extracted.Service{Repo: infos, Docs: docs},
		Users:     users.NewService(userRepo),
		Parser:    parse.New(parse.DefaultConfig()),
	}
	return &testEnv{svc: svc, docs: docs, infos: infos, users: userRepo, store: store}
}

func (e *testEnv) seed(t *testing.T, data []byte, fileName, mimeType, status string) documents.Document {
	t.Helper()
	ctx := context.Background()
	key, size, _, err := e.store.Save(ctx, "user-1", fileName, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("store save: %v", err)
	}
	doc := documents.Document{
		ID:         "doc-" + fileName,
		UserID:     "user-1",
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: key,
		Status:     status,
		UploadedAt: time.Now().UTC(),
	}
	if err := e.docs.Create(ctx, doc); err != nil {
		t.Fatalf("docs create: %v", err)
	}
	return doc
}

func TestProcessDocumentCompletes(t *testing.T) {
	env := newTestEnv(t)
	doc := env.seed(t, buildDocx(t), "resume.docx", extract.MimeDOCX, documents.StatusPending)

	if err := env.svc.ProcessDocument(context.Background(), doc.ID); err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}

	got, err := env.docs.Get(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("docs get: %v", err)
	}
	if got.Status != documents.StatusCompleted {
		t.Fatalf("status = %q, want completed (error: %s)", got.Status, got.ErrorMessage)
	}
	if got.ProcessedAt == nil {
		t.Fatal("expected processedAt to be set")
	}

	info, err := env.infos.GetByDocument(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("extraction lookup: %v", err)
	}
	if info.Resume.FullName != "Jane Doe" {
		t.Fatalf("fullName = %q", info.Resume.FullName)
	}
	if info.Resume.Email != "jane.doe@example.com" {
		t.Fatalf("email = %q", info.Resume.Email)
	}
	if len(info.Resume.Skills) == 0 {
		t.Fatal("expected skills to be extracted")
	}

	// The stored binary is released after a terminal status.
	if _, err := env.store.Open(context.Background(), doc.StorageKey); err == nil {
		t.Fatal("expected stored object to be deleted")
	}

	// A user profile is derived from the extracted contact details.
	user, err := env.users.GetByEmail(context.Background(), "jane.doe@example.com")
	if err != nil {
		t.Fatalf("user lookup: %v", err)
	}
	if user.FullName != "Jane Doe" {
		t.Fatalf("user fullName = %q", user.FullName)
	}
}

func TestProcessDocumentUnsupportedMimeFails(t *testing.T) {
	env := newTestEnv(t)
	doc := env.seed(t, []byte("png bytes"), "image.png", "image/png", documents.StatusPending)

	err := env.svc.ProcessDocument(context.Background(), doc.ID)
	if !errors.Is(err, extract.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}

	got, _ := env.docs.Get(context.Background(), doc.ID)
	if got.Status != documents.StatusFailed {
		t.Fatalf("status = %q, want failed", got.Status)
	}
	if !strings.Contains(got.ErrorMessage, ErrorCodeUnsupportedFormat) {
		t.Fatalf("errorMessage = %q, want %s code", got.ErrorMessage, ErrorCodeUnsupportedFormat)
	}

	// No partial extraction is persisted.
	if _, err := env.infos.GetByDocument(context.Background(), doc.ID); !errors.Is(err, extracted.ErrNotFound) {
		t.Fatalf("extraction err = %v, want ErrNotFound", err)
	}

	// Bytes are released on failure too.
	if _, err := env.store.Open(context.Background(), doc.StorageKey); err == nil {
		t.Fatal("expected stored object to be deleted")
	}
}

func TestProcessDocumentDegradedPDFCompletes(t *testing.T) {
	env := newTestEnv(t)
	doc := env.seed(t, []byte("not really a pdf"), "resume.pdf", extract.MimePDF, documents.StatusPending)

	if err := env.svc.ProcessDocument(context.Background(), doc.ID); err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}

	got, _ := env.docs.Get(context.Background(), doc.ID)
	if got.Status != documents.StatusCompleted {
		t.Fatalf("status = %q, want completed (error: %s)", got.Status, got.ErrorMessage)
	}
	if _, err := env.infos.GetByDocument(context.Background(), doc.ID); err != nil {
		t.Fatalf("expected extraction record, got %v", err)
	}
}

func TestProcessDocumentRetryFromFailed(t *testing.T) {
	env := newTestEnv(t)
	doc := env.seed(t, buildDocx(t), "resume.docx", extract.MimeDOCX, documents.StatusFailed)

	if err := env.svc.ProcessDocument(context.Background(), doc.ID); err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}

	got, _ := env.docs.Get(context.Background(), doc.ID)
	if got.Status != documents.StatusCompleted {
		t.Fatalf("status = %q, want completed (error: %s)", got.Status, got.ErrorMessage)
	}
	if got.ErrorMessage != "" {
		t.Fatalf("errorMessage = %q, want cleared", got.ErrorMessage)
	}
}

func TestProcessDocumentRejectsTerminalCompleted(t *testing.T) {
	env := newTestEnv(t)
	doc := env.seed(t, buildDocx(t), "resume.docx", extract.MimeDOCX, documents.StatusCompleted)

	err := env.svc.ProcessDocument(context.Background(), doc.ID)
	if !errors.Is(err, documents.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestProcessDocumentMissingDocument(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.ProcessDocument(context.Background(), "nope")
	if !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

type flakyDeleteStore struct {
	object.ObjectStore
}

func (f *flakyDeleteStore) Delete(ctx context.Context, storageKey string) error {
	return errors.New("delete unavailable")
}

func TestProcessDocumentDeleteFailureIsNonFatal(t *testing.T) {
	env := newTestEnv(t)
	env.svc.Store = &flakyDeleteStore{ObjectStore: env.store}
	doc := env.seed(t, buildDocx(t), "resume.docx", extract.MimeDOCX, documents.StatusPending)

	if err := env.svc.ProcessDocument(context.Background(), doc.ID); err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}

	got, _ := env.docs.Get(context.Background(), doc.ID)
	if got.Status != documents.StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
}

func TestProcessDocumentPanicBecomesFailed(t *testing.T) {
	env := newTestEnv(t)
	doc := env.seed(t, buildDocx(t), "resume.docx", extract.MimeDOCX, documents.StatusPending)
	env.svc.Parser = nil // force a panic mid-run

	if err := env.svc.ProcessDocument(context.Background(), doc.ID); err == nil {
		t.Fatal("expected error from panicking run")
	}

	got, _ := env.docs.Get(context.Background(), doc.ID)
	if got.Status != documents.StatusFailed {
		t.Fatalf("status = %q, want failed", got.Status)
	}
	if !strings.Contains(got.ErrorMessage, ErrorCodeInternal) {
		t.Fatalf("errorMessage = %q, want %s code", got.ErrorMessage, ErrorCodeInternal)
	}
}
