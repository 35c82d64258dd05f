package repo

import (
	"context"
	"time"

	"github.com/tasknest/task-manager-api/internal/model"
)

// TaskRepository is the storage boundary for task records. Every
// id-addressed operation is owner-scoped: a task belonging to another
// user behaves as if it does not exist.
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id, userID string) (model.Task, error)
	List(ctx context.Context, userID string, filter model.TaskFilter) ([]model.Task, int, error)
	Update(ctx context.Context, id, userID string, in model.UpdateTaskInput) (model.Task, error)
	Delete(ctx context.Context, id, userID string) error
	ListDueBetween(ctx context.Context, from, to time.Time) ([]model.Task, error)
}

type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	Update(ctx context.Context, id string, in model.UpdateUserInput) (model.User, error)
}
