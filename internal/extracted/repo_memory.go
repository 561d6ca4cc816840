package extracted

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Info // documentID -> info
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Info),
	}
}

// Upsert inserts or replaces the extraction for a document.
func (r *MemoryRepo) Upsert(ctx context.Context, info Info) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.data[info.DocumentID]; ok {
		info.ID = existing.ID
		info.CreatedAt = existing.CreatedAt
	}
	r.data[info.DocumentID] = info
	return nil
}

// GetByDocument returns the extraction stored for a document.
func (r *MemoryRepo) GetByDocument(ctx context.Context, documentID string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.data[documentID]
	if !ok {
		return Info{}, ErrNotFound
	}
	return info, nil
}

var _ Repo = (*MemoryRepo)(nil)
