package extracted

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. List-valued fields are stored as
// JSONB so the schema does not chase the parser's shape.
type PGRepo struct {
	DB *sql.DB
}

// Upsert inserts or replaces the extraction for a document.
func (r *PGRepo) Upsert(ctx context.Context, info Info) error {
	const query = `
INSERT INTO extracted_info (
    id,
    document_id,
    full_name,
    email,
    phone,
    location,
    summary,
    skills,
    languages,
    experience,
    education,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (document_id) DO UPDATE SET
    full_name = EXCLUDED.full_name,
    email = EXCLUDED.email,
    phone = EXCLUDED.phone,
    location = EXCLUDED.location,
    summary = EXCLUDED.summary,
    skills = EXCLUDED.skills,
    languages = EXCLUDED.languages,
    experience = EXCLUDED.experience,
    education = EXCLUDED.education,
    updated_at = EXCLUDED.updated_at`

	skills, err := marshalList(info.Resume.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	languages, err := marshalList(info.Resume.Languages)
	if err != nil {
		return fmt.Errorf("marshal languages: %w", err)
	}
	experience, err := marshalList(info.Resume.Experience)
	if err != nil {
		return fmt.Errorf("marshal experience: %w", err)
	}
	education, err := marshalList(info.Resume.Education)
	if err != nil {
		return fmt.Errorf("marshal education: %w", err)
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		info.ID,
		info.DocumentID,
		info.Resume.FullName,
		info.Resume.Email,
		info.Resume.Phone,
		info.Resume.Location,
		info.Resume.Summary,
		skills,
		languages,
		experience,
		education,
		info.CreatedAt,
		info.UpdatedAt,
	)
	return err
}

// GetByDocument returns the extraction stored for a document.
func (r *PGRepo) GetByDocument(ctx context.Context, documentID string) (Info, error) {
	const query = `
SELECT id, document_id, full_name, email, phone, location, summary, skills, languages, experience, education, created_at, updated_at
FROM extracted_info
WHERE document_id = $1
LIMIT 1`

	var info Info
	var skills, languages, experience, education []byte
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&info.ID,
		&info.DocumentID,
		&info.Resume.FullName,
		&info.Resume.Email,
		&info.Resume.Phone,
		&info.Resume.Location,
		&info.Resume.Summary,
		&skills,
		&languages,
		&experience,
		&education,
		&info.CreatedAt,
		&info.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Info{}, ErrNotFound
		}
		return Info{}, err
	}

	if err := unmarshalList(skills, &info.Resume.Skills); err != nil {
		return Info{}, fmt.Errorf("unmarshal skills: %w", err)
	}
	if err := unmarshalList(languages, &info.Resume.Languages); err != nil {
		return Info{}, fmt.Errorf("unmarshal languages: %w", err)
	}
	if err := unmarshalList(experience, &info.Resume.Experience); err != nil {
		return Info{}, fmt.Errorf("unmarshal experience: %w", err)
	}
	if err := unmarshalList(education, &info.Resume.Education); err != nil {
		return Info{}, fmt.Errorf("unmarshal education: %w", err)
	}
	return info, nil
}

func marshalList(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return []byte("[]"), nil
	}
	return data, nil
}

func unmarshalList(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

var _ Repo = (*PGRepo)(nil)
