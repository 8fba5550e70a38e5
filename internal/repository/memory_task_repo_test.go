package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryTaskRepository_Lifecycle(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewMemoryTaskRepositoryWithClock(func() time.Time { return clock })
	ctx := context.Background()

	created, err := repo.CreateForOwner(ctx, 1, "Buy milk")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 || created.Completed || !created.CreatedAt.Equal(clock) || !created.UpdatedAt.Equal(clock) {
		t.Fatalf("unexpected task %+v", created)
	}

	clock = clock.Add(time.Minute)
	updated, err := repo.UpdateCompleted(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed || !updated.UpdatedAt.Equal(clock) || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("unexpected updated task %+v", updated)
	}

	if err := repo.DeleteByID(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByOwnerAndID(ctx, 1, created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if err := repo.DeleteByID(ctx, created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on second delete, got %v", err)
	}
	if _, err := repo.UpdateCompleted(ctx, created.ID, false); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on update, got %v", err)
	}
}

func TestMemoryTaskRepository_IDsNotReused(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()

	a, _ := repo.CreateForOwner(ctx, 1, "a")
	_ = repo.DeleteByID(ctx, a.ID)
	b, _ := repo.CreateForOwner(ctx, 1, "b")

	if b.ID == a.ID {
		t.Fatalf("id %d reused", a.ID)
	}
}

func TestMemoryTaskRepository_FindIsOwnerScoped(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()

	task, _ := repo.CreateForOwner(ctx, 1, "private")
	if _, err := repo.FindByOwnerAndID(ctx, 2, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected foreign lookup to miss, got %v", err)
	}

	others, _ := repo.ListByOwner(ctx, 2)
	if len(others) != 0 {
		t.Fatalf("expected no tasks for user 2, got %d", len(others))
	}
}

func TestMemoryTaskRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()

	task, _ := repo.CreateForOwner(ctx, 1, "original")
	task.Text = "mutated"
	task.Completed = true

	stored, _ := repo.FindByOwnerAndID(ctx, 1, task.ID)
	if stored.Text != "original" || stored.Completed {
		t.Fatalf("caller mutation leaked into store: %+v", stored)
	}
}

func TestMemoryTaskRepository_ConcurrentCreates(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.CreateForOwner(ctx, 1, "t"); err != nil {
				t.Errorf("create: %v", err)
			}
		}()
	}
	wg.Wait()

	tasks, _ := repo.ListByOwner(ctx, 1)
	if len(tasks) != n {
		t.Fatalf("expected %d tasks, got %d", n, len(tasks))
	}
	for i, task := range tasks {
		if task.ID != int64(i+1) {
			t.Fatalf("expected ascending ids, got %d at %d", task.ID, i)
		}
	}
}
