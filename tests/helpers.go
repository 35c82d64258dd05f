package tests

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasknest/task-manager-api/internal/model"
)

// SetupTestDB starts a disposable PostgreSQL container with the schema
// applied and returns a connected pool plus a cleanup func.
func SetupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	ctx := context.Background()

	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filename))
	migrationsPath := filepath.Join(projectRoot, "migrations")

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.WithInitScripts(filepath.Join(migrationsPath, "001_init.up.sql")),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	cleanup := func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), "TRUNCATE tasks, users CASCADE"); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// CreateTestUser inserts a user with the password "password123" and
// returns it.
func CreateTestUser(t *testing.T, pool *pgxpool.Pool, email string) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	u := model.User{
		ID:                 uuid.NewString(),
		Name:               "Test User",
		Email:              email,
		PasswordHash:       string(hash),
		Role:               model.RoleUser,
		EmailNotifications: true,
	}

	_, err = pool.Exec(context.Background(), `
		INSERT INTO users (id, name, email, password_hash, role, email_notifications)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.EmailNotifications)
	if err != nil {
		t.Fatalf("Failed to insert test user: %v", err)
	}

	return u
}

// SeedTask inserts a task row directly, bypassing the service layer.
func SeedTask(t *testing.T, pool *pgxpool.Pool, userID string, mutate func(*model.Task)) model.Task {
	t.Helper()

	task := model.Task{
		ID:       uuid.NewString(),
		Title:    fmt.Sprintf("Task %s", uuid.NewString()[:8]),
		Status:   model.StatusPending,
		Priority: model.PriorityMedium,
		UserID:   userID,
	}
	if mutate != nil {
		mutate(&task)
	}

	_, err := pool.Exec(context.Background(), `
		INSERT INTO tasks (id, title, description, due_date, status, priority, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, task.ID, task.Title, task.Description, task.DueDate, task.Status, task.Priority, task.UserID)
	if err != nil {
		t.Fatalf("Failed to insert test task: %v", err)
	}

	return task
}
