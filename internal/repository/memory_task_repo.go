package repository

import (
	"context"
	"sync"
	"time"

	"tasklist/internal/domain"
)

// MemoryTaskRepository keeps tasks in process memory. Ids start at 1 and are
// never reused.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	seq   int64
	tasks map[int64]*domain.Task
	now   func() time.Time
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return NewMemoryTaskRepositoryWithClock(func() time.Time { return time.Now().UTC() })
}

// NewMemoryTaskRepositoryWithClock uses now for created_at/updated_at.
func NewMemoryTaskRepositoryWithClock(now func() time.Time) *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[int64]*domain.Task),
		now:   now,
	}
}

func (r *MemoryTaskRepository) ListByOwner(_ context.Context, ownerID int64) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*domain.Task, 0)
	// ids are dense and increasing, so walking the sequence gives insertion order
	for id := int64(1); id <= r.seq; id++ {
		t, ok := r.tasks[id]
		if !ok || t.UserID != ownerID {
			continue
		}
		cp := *t
		res = append(res, &cp)
	}
	return res, nil
}

func (r *MemoryTaskRepository) CreateForOwner(_ context.Context, ownerID int64, text string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	now := r.now()
	t := &domain.Task{
		ID:        r.seq,
		UserID:    ownerID,
		Text:      text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.tasks[t.ID] = t

	cp := *t
	return &cp, nil
}

func (r *MemoryTaskRepository) FindByOwnerAndID(_ context.Context, ownerID, id int64) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *MemoryTaskRepository) UpdateCompleted(_ context.Context, id int64, completed bool) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	t.Completed = completed
	t.UpdatedAt = r.now()

	cp := *t
	return &cp, nil
}

func (r *MemoryTaskRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}
