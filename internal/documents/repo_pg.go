package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, file_name, original_filename, mime_type, size_bytes, storage_provider, storage_key, status, error_message, uploaded_at, processed_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    file_name,
    original_filename,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    status,
    error_message,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL, $10)`

	originalName := doc.OriginalFilename
	if originalName == "" {
		originalName = doc.FileName
	}
	storageProvider := doc.StorageProvider
	if storageProvider == "" {
		storageProvider = "local"
	}
	status := doc.Status
	if status == "" {
		status = StatusPending
	}

	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		originalName,
		doc.MimeType,
		doc.SizeBytes,
		storageProvider,
		storageKey,
		status,
		doc.UploadedAt,
	)
	return err
}

// Get returns a document by ID regardless of owner.
func (r *PGRepo) Get(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, documentID))
}

// GetByID fetches a document by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userId, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userId, documentID))
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userId string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY uploaded_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userId, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateStatus moves a document to status, enforcing the state machine in
// the WHERE clause so concurrent writers cannot race past it.
func (r *PGRepo) UpdateStatus(ctx context.Context, documentID, status, errorMessage string, processedAt *time.Time) error {
	sources := transitionSources(status)
	if len(sources) == 0 {
		return ErrInvalidTransition
	}

	const query = `
UPDATE documents
SET status = $1, error_message = $2, processed_at = $3
WHERE id = $4 AND status = ANY(ARRAY[$5, $6])`

	var errMsg sql.NullString
	if errorMessage != "" {
		errMsg = sql.NullString{String: errorMessage, Valid: true}
	}
	var procAt sql.NullTime
	if processedAt != nil {
		procAt = sql.NullTime{Time: *processedAt, Valid: true}
	}
	from1 := sources[0]
	from2 := sources[0]
	if len(sources) > 1 {
		from2 = sources[1]
	}

	res, err := r.DB.ExecContext(ctx, query, status, errMsg, procAt, documentID, from1, from2)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing matched: either the document is missing or its current
	// status forbids this transition.
	var current string
	err = r.DB.QueryRowContext(ctx, `SELECT status FROM documents WHERE id = $1`, documentID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrInvalidTransition
}

// transitionSources returns the statuses a document may hold immediately
// before entering target.
func transitionSources(target string) []string {
	var out []string
	for from, tos := range allowedTransitions {
		for _, to := range tos {
			if to == target {
				out = append(out, from)
			}
		}
	}
	// Map iteration order is random; keep output stable for queries.
	if len(out) > 1 && out[0] > out[1] {
		out[0], out[1] = out[1], out[0]
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Document, error) {
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var originalName sql.NullString
	var storageProvider sql.NullString
	var storageKey sql.NullString
	var errorMessage sql.NullString
	var processedAt sql.NullTime
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&originalName,
		&doc.MimeType,
		&doc.SizeBytes,
		&storageProvider,
		&storageKey,
		&doc.Status,
		&errorMessage,
		&doc.UploadedAt,
		&processedAt,
	); err != nil {
		return Document{}, err
	}
	if originalName.Valid {
		doc.OriginalFilename = originalName.String
	}
	if storageProvider.Valid {
		doc.StorageProvider = storageProvider.String
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}
	if errorMessage.Valid {
		doc.ErrorMessage = errorMessage.String
	}
	if processedAt.Valid {
		doc.ProcessedAt = &processedAt.Time
	}
	return doc, nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
