package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
)

// TaskRepository persists tasks. Every method except Create takes the
// owner's id and matches on it together with the task id, so a task owned
// by someone else behaves exactly like a missing one (ErrNotFound).
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	// List returns the owner's tasks matching f, newest first.
	List(ctx context.Context, userID string, f entity.TaskFilter) ([]entity.Task, error)
	Get(ctx context.Context, userID, id string) (*entity.Task, error)
	// Update replaces the mutable fields of the task identified by
	// t.ID and t.UserID.
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, userID, id string) error
}
