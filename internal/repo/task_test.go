package repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasknest/task-manager-api/internal/model"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatal(err)
	}

	pool.Exec(context.Background(), "TRUNCATE tasks, users CASCADE")

	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	users := NewUserRepo(pool)
	u, err := users.Create(context.Background(), model.User{
		Name:         "Test",
		Email:        email,
		PasswordHash: "x",
		Role:         model.RoleUser,
	})
	if err != nil {
		t.Fatal(err)
	}
	return u.ID
}

func TestTaskRepo_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	userID := seedUser(t, pool, "create@test.local")
	repo := NewTaskRepo(pool)
	ctx := context.Background()

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	created, err := repo.Create(ctx, model.Task{
		Title:    "Test",
		DueDate:  &due,
		Status:   model.StatusPending,
		Priority: model.PriorityHigh,
		UserID:   userID,
	})
	if err != nil {
		t.Fatal(err)
	}

	if created.ID == "" {
		t.Error("expected non-empty ID")
	}
	if created.Priority != model.PriorityHigh {
		t.Errorf("expected priority=HIGH, got %s", created.Priority)
	}

	got, err := repo.Get(ctx, created.ID, userID)
	if err != nil {
		t.Fatal(err)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due date mismatch: got %v, want %v", got.DueDate, due)
	}
}

func TestTaskRepo_OwnerScope(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	alice := seedUser(t, pool, "alice@test.local")
	bob := seedUser(t, pool, "bob@test.local")
	repo := NewTaskRepo(pool)
	ctx := context.Background()

	task, err := repo.Create(ctx, model.Task{Title: "Alice's task", Status: model.StatusPending, Priority: model.PriorityLow, UserID: alice})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Get(ctx, task.ID, bob); err != ErrorNotFound {
		t.Errorf("expected ErrorNotFound for foreign owner, got %v", err)
	}
	if err := repo.Delete(ctx, task.ID, bob); err != ErrorNotFound {
		t.Errorf("expected ErrorNotFound deleting foreign task, got %v", err)
	}

	tasks, total, err := repo.List(ctx, bob, model.TaskFilter{Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 || len(tasks) != 0 {
		t.Errorf("expected empty list for bob, got total=%d len=%d", total, len(tasks))
	}
}

func TestTaskRepo_ListFilters(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	userID := seedUser(t, pool, "filters@test.local")
	repo := NewTaskRepo(pool)
	ctx := context.Background()

	seed := []model.Task{
		{Title: "Deploy Service", Description: "ship it", Status: model.StatusPending, Priority: model.PriorityHigh},
		{Title: "Write docs", Description: "deploy notes", Status: model.StatusPending, Priority: model.PriorityLow},
		{Title: "Fix bug", Description: "", Status: model.StatusInProgress, Priority: model.PriorityHigh},
	}
	for _, task := range seed {
		task.UserID = userID
		if _, err := repo.Create(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("status and priority AND together", func(t *testing.T) {
		tasks, total, err := repo.List(ctx, userID, model.TaskFilter{
			Status: string(model.StatusPending), Priority: string(model.PriorityHigh), Page: 1, Limit: 10,
		})
		if err != nil {
			t.Fatal(err)
		}
		if total != 1 || len(tasks) != 1 || tasks[0].Title != "Deploy Service" {
			t.Errorf("expected exactly the intersection, got total=%d", total)
		}
	})

	t.Run("search is case-insensitive over title and description", func(t *testing.T) {
		_, total, err := repo.List(ctx, userID, model.TaskFilter{Search: "deploy", Page: 1, Limit: 10})
		if err != nil {
			t.Fatal(err)
		}
		if total != 2 {
			t.Errorf("expected 2 matches for 'deploy', got %d", total)
		}
	})

	t.Run("like metacharacters are literal", func(t *testing.T) {
		_, total, err := repo.List(ctx, userID, model.TaskFilter{Search: "100%", Page: 1, Limit: 10})
		if err != nil {
			t.Fatal(err)
		}
		if total != 0 {
			t.Errorf("expected no matches for literal '100%%', got %d", total)
		}
	})

	t.Run("ordering is newest first", func(t *testing.T) {
		tasks, _, err := repo.List(ctx, userID, model.TaskFilter{Page: 1, Limit: 10})
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(tasks); i++ {
			if tasks[i].CreatedAt.After(tasks[i-1].CreatedAt) {
				t.Error("expected created_at DESC ordering")
			}
		}
	})
}

func TestTaskRepo_Pagination(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	userID := seedUser(t, pool, "pages@test.local")
	repo := NewTaskRepo(pool)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		if _, err := repo.Create(ctx, model.Task{Title: "Task", Status: model.StatusPending, Priority: model.PriorityMedium, UserID: userID}); err != nil {
			t.Fatal(err)
		}
	}

	tasks, total, err := repo.List(ctx, userID, model.TaskFilter{Page: 3, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 23 {
		t.Errorf("expected total=23, got %d", total)
	}
	if len(tasks) != 3 {
		t.Errorf("expected 3 rows on page 3, got %d", len(tasks))
	}

	tasks, total, err = repo.List(ctx, userID, model.TaskFilter{Page: 4, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 23 || len(tasks) != 0 {
		t.Errorf("expected empty page 4 with total=23, got total=%d len=%d", total, len(tasks))
	}
}

func TestTaskRepo_Update(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	userID := seedUser(t, pool, "update@test.local")
	repo := NewTaskRepo(pool)
	ctx := context.Background()

	due := time.Now().Add(24 * time.Hour)
	task, err := repo.Create(ctx, model.Task{Title: "Before", DueDate: &due, Status: model.StatusPending, Priority: model.PriorityLow, UserID: userID})
	if err != nil {
		t.Fatal(err)
	}

	status := model.StatusCompleted
	updated, err := repo.Update(ctx, task.ID, userID, model.UpdateTaskInput{Status: &status})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != model.StatusCompleted {
		t.Errorf("expected COMPLETED, got %s", updated.Status)
	}
	if updated.Title != "Before" {
		t.Errorf("partial update must not touch other fields, got title %q", updated.Title)
	}

	// Explicit null clears the due date.
	updated, err = repo.Update(ctx, task.ID, userID, model.UpdateTaskInput{DueDate: model.NullableTime{Set: true}})
	if err != nil {
		t.Fatal(err)
	}
	if updated.DueDate != nil {
		t.Errorf("expected cleared due date, got %v", updated.DueDate)
	}

	if _, err := repo.Update(ctx, "missing-id", userID, model.UpdateTaskInput{Status: &status}); err != ErrorNotFound {
		t.Errorf("expected ErrorNotFound, got %v", err)
	}
}

func TestTaskRepo_ListDueBetween(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	userID := seedUser(t, pool, "due@test.local")
	repo := NewTaskRepo(pool)
	ctx := context.Background()
	now := time.Now()

	mk := func(title string, due *time.Time) {
		t.Helper()
		if _, err := repo.Create(ctx, model.Task{Title: title, DueDate: due, Status: model.StatusPending, Priority: model.PriorityMedium, UserID: userID}); err != nil {
			t.Fatal(err)
		}
	}
	soon := now.Add(12 * time.Hour)
	far := now.Add(120 * time.Hour)
	mk("soon", &soon)
	mk("far", &far)
	mk("never", nil)

	tasks, err := repo.ListDueBetween(ctx, now, now.Add(48*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Title != "soon" {
		t.Errorf("expected only the near-due task, got %d rows", len(tasks))
	}
}
