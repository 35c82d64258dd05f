package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tasknest/task-manager-api/internal/model"
	"github.com/tasknest/task-manager-api/internal/repo"
)

// ValidationError reports a single bad request field. The request is
// rejected before any store query is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const (
	defaultPage  = 1
	defaultLimit = 10
)

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, userID string, in model.CreateTaskInput) (model.Task, error) {
	t := model.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      model.StatusPending,
		Priority:    model.PriorityMedium,
		UserID:      userID,
	}

	if t.Title == "" {
		return t, &ValidationError{Field: "title", Message: "title is required"}
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return t, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", *in.Status)}
		}
		t.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return t, &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", *in.Priority)}
		}
		t.Priority = *in.Priority
	}

	return s.repo.Create(ctx, t)
}

func (s *TaskService) Get(ctx context.Context, id, userID string) (model.Task, error) {
	return s.repo.Get(ctx, id, userID)
}

// List validates the filter, applies pagination defaults and returns the
// caller's page envelope. Enum fields must match a known value exactly;
// anything else is rejected rather than silently ignored.
func (s *TaskService) List(ctx context.Context, userID string, filter model.TaskFilter) (model.TaskPage, error) {
	page := model.TaskPage{Data: []model.Task{}}

	if filter.Status != "" && !model.TaskStatus(filter.Status).Valid() {
		return page, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", filter.Status)}
	}
	if filter.Priority != "" && !model.TaskPriority(filter.Priority).Valid() {
		return page, &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", filter.Priority)}
	}

	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}

	tasks, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return page, err
	}

	lastPage := 0
	if total > 0 {
		lastPage = (total + filter.Limit - 1) / filter.Limit
	}

	page.Data = tasks
	page.Meta = model.PageMeta{
		Total:    total,
		Page:     filter.Page,
		LastPage: lastPage,
	}
	return page, nil
}

func (s *TaskService) Update(ctx context.Context, id, userID string, in model.UpdateTaskInput) (model.Task, error) {
	var t model.Task

	if in.Title == nil && in.Description == nil && !in.DueDate.Set && in.Status == nil && in.Priority == nil {
		return t, &ValidationError{Field: "body", Message: "no fields to update"}
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return t, &ValidationError{Field: "title", Message: "title cannot be empty"}
		}
		in.Title = &title
	}
	if in.Status != nil && !in.Status.Valid() {
		return t, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", *in.Status)}
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return t, &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", *in.Priority)}
	}

	return s.repo.Update(ctx, id, userID, in)
}

func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}
