package service

import (
	"context"
	"fmt"

	"tasklist/internal/domain"
	"tasklist/internal/repository"
)

// ErrTaskNotFound covers both missing tasks and tasks owned by someone else.
var ErrTaskNotFound = repository.ErrTaskNotFound

// TaskStore is the persistence port used by TaskService. Implementations
// return repository.ErrTaskNotFound for unknown ids.
type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)
	CreateForOwner(ctx context.Context, ownerID int64, text string) (*domain.Task, error)
	FindByOwnerAndID(ctx context.Context, ownerID, id int64) (*domain.Task, error)
	UpdateCompleted(ctx context.Context, id int64, completed bool) (*domain.Task, error)
	DeleteByID(ctx context.Context, id int64) error
}

// TaskListener is notified after a mutation has been persisted.
type TaskListener interface {
	TaskChanged(ctx context.Context, ev domain.TaskEvent)
}

// TaskService scopes every task operation to an explicit owner id.
type TaskService struct {
	store     TaskStore
	listeners []TaskListener
}

func NewTaskService(store TaskStore, listeners ...TaskListener) *TaskService {
	return &TaskService{store: store, listeners: listeners}
}

// List returns the owner's tasks in creation order; never nil.
func (s *TaskService) List(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	tasks, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks for user %d: %w", ownerID, err)
	}
	if tasks == nil {
		tasks = make([]*domain.Task, 0)
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, ownerID int64, in CreateTaskInput) (*domain.Task, error) {
	task, err := s.store.CreateForOwner(ctx, ownerID, in.Text)
	if err != nil {
		return nil, fmt.Errorf("create task for user %d: %w", ownerID, err)
	}
	s.notify(ctx, domain.TaskCreated, ownerID, task)
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, ownerID, id int64, in UpdateTaskInput) (*domain.Task, error) {
	if _, err := s.store.FindByOwnerAndID(ctx, ownerID, id); err != nil {
		return nil, err
	}

	task, err := s.store.UpdateCompleted(ctx, id, in.Completed)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, domain.TaskUpdated, ownerID, task)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	task, err := s.store.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, domain.TaskDeleted, ownerID, task)
	return nil
}

func (s *TaskService) notify(ctx context.Context, typ domain.TaskEventType, ownerID int64, task *domain.Task) {
	ev := domain.TaskEvent{Type: typ, OwnerID: ownerID, Task: *task}
	for _, l := range s.listeners {
		l.TaskChanged(ctx, ev)
	}
}
