package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// EnsureFromResume creates or refreshes a user profile from extracted
// contact details. Without an email there is nothing to key the profile
// on, so the call is a no-op.
func (s *Service) EnsureFromResume(ctx context.Context, fullName, email string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, nil
	}
	fullName = strings.TrimSpace(fullName)

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	if err == nil {
		if fullName == "" || existing.FullName == fullName {
			return existing, nil
		}
		existing.FullName = fullName
		if err := s.Repo.Upsert(ctx, existing); err != nil {
			return User{}, err
		}
		return existing, nil
	}

	user := User{
		ID:       uuid.NewString(),
		Email:    email,
		FullName: fullName,
	}
	if err := s.Repo.Upsert(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}
