package extracted

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"cv-backend/internal/documents"
	"cv-backend/internal/parse"
)

// Service contains business logic for extracted info. Lookups are scoped
// through the documents repo so a caller can only see extractions for
// documents they own.
type Service struct {
	Repo Repo
	Docs documents.DocumentsRepo
}

// Get returns the extraction for one of the user's documents.
func (s *Service) Get(ctx context.Context, userId, documentID string) (Info, error) {
	if _, err := s.Docs.GetByID(ctx, userId, documentID); err != nil {
		return Info{}, err
	}
	return s.Repo.GetByDocument(ctx, documentID)
}

// Update overwrites the extraction for one of the user's documents with
// manually corrected fields.
func (s *Service) Update(ctx context.Context, userId, documentID string, resume parse.Resume) (Info, error) {
	if _, err := s.Docs.GetByID(ctx, userId, documentID); err != nil {
		return Info{}, err
	}

	normalizeResume(&resume)
	now := time.Now().UTC()
	info := Info{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Resume:     resume,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Upsert(ctx, info); err != nil {
		return Info{}, err
	}
	return s.Repo.GetByDocument(ctx, documentID)
}

// ContactFields returns the parsed name and email for a document, if an
// extraction exists. Used to decorate document listings.
func (s *Service) ContactFields(ctx context.Context, documentID string) (string, string, bool) {
	info, err := s.Repo.GetByDocument(ctx, documentID)
	if err != nil {
		return "", "", false
	}
	return info.Resume.FullName, info.Resume.Email, true
}

// Save stores a fresh extraction for a document. Called by the pipeline,
// which has already verified the document.
func (s *Service) Save(ctx context.Context, documentID string, resume parse.Resume) error {
	now := time.Now().UTC()
	return s.Repo.Upsert(ctx, Info{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Resume:     resume,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func normalizeResume(r *parse.Resume) {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Location = strings.TrimSpace(r.Location)
	r.Summary = strings.TrimSpace(r.Summary)
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Languages == nil {
		r.Languages = []string{}
	}
	if r.Experience == nil {
		r.Experience = []parse.ExperienceEntry{}
	}
	if r.Education == nil {
		r.Education = []parse.EducationEntry{}
	}
}
