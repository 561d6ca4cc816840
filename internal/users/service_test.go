package users

import (
	"context"
	"testing"
)

func TestEnsureFromResumeCreatesUser(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	user, err := svc.EnsureFromResume(context.Background(), "Jane Doe", "jane.doe@example.com")
	if err != nil {
		t.Fatalf("EnsureFromResume: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated user id")
	}
	if user.Email != "jane.doe@example.com" || user.FullName != "Jane Doe" {
		t.Fatalf("user = %+v", user)
	}

	got, err := svc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != user.Email {
		t.Fatalf("email = %q", got.Email)
	}
}

func TestEnsureFromResumeReusesExistingByEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	first, err := svc.EnsureFromResume(context.Background(), "Jane Doe", "jane.doe@example.com")
	if err != nil {
		t.Fatalf("EnsureFromResume: %v", err)
	}
	second, err := svc.EnsureFromResume(context.Background(), "Jane A Doe", "Jane.Doe@Example.com")
	if err != nil {
		t.Fatalf("EnsureFromResume: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same user, got %q and %q", first.ID, second.ID)
	}
	if second.FullName != "Jane A Doe" {
		t.Fatalf("fullName = %q, want refreshed name", second.FullName)
	}
}

func TestEnsureFromResumeSkipsWithoutEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	user, err := svc.EnsureFromResume(context.Background(), "Jane Doe", "  ")
	if err != nil {
		t.Fatalf("EnsureFromResume: %v", err)
	}
	if user.ID != "" {
		t.Fatalf("expected no user, got %+v", user)
	}
}
