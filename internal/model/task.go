package model

import (
	"encoding/json"
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusCancelled  TaskStatus = "CANCELLED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	DueDate          *time.Time   `json:"dueDate"`
	Status           TaskStatus   `json:"status"`
	Priority         TaskPriority `json:"priority"`
	NotificationSent bool         `json:"notificationSent"` // reserved, no write path yet
	UserID           string       `json:"userId"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

type CreateTaskInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     *time.Time    `json:"dueDate"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
}

// NullableTime distinguishes an absent JSON field from an explicit null,
// so PATCH can clear a due date.
type NullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *NullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	n.Value = &t
	return nil
}

func (n NullableTime) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

type UpdateTaskInput struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	DueDate     NullableTime  `json:"dueDate"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
}

// TaskFilter holds per-request list constraints. Zero values mean
// the constraint is not applied; owner scope is always applied.
type TaskFilter struct {
	Search   string
	Status   string
	Priority string
	Page     int
	Limit    int
}

type PageMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	LastPage int `json:"lastPage"`
}

type TaskPage struct {
	Data []Task   `json:"data"`
	Meta PageMeta `json:"meta"`
}

// Notification is computed per evaluation cycle and never persisted.
type Notification struct {
	ID      string    `json:"id"`
	TaskID  string    `json:"taskId"`
	Message string    `json:"message"`
	DueDate time.Time `json:"dueDate"`
}
