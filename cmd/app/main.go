package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tasknest/task-manager-api/internal/auth"
	"github.com/tasknest/task-manager-api/internal/config"
	"github.com/tasknest/task-manager-api/internal/handler"
	"github.com/tasknest/task-manager-api/internal/logger"
	"github.com/tasknest/task-manager-api/internal/repo"
	"github.com/tasknest/task-manager-api/internal/service"
	"github.com/tasknest/task-manager-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	zlog, err := logger.New(cfg.LogFile)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer zlog.Sync()

	if err := runMigrations(cfg); err != nil {
		zlog.Fatal("Migrations failed", zap.Error(err))
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("Failed to connect to Database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		zlog.Fatal("Failed to ping the Database", zap.Error(err))
	}
	zlog.Info("Successfully connected to the Database")

	taskRepo := repo.NewTaskRepo(pool)
	userRepo := repo.NewUserRepo(pool)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	taskService := service.NewTaskService(taskRepo)
	authService := service.NewAuthService(userRepo, tokens)

	poller := worker.NewPoller(taskRepo, zlog, cfg.NotifyInterval)
	poller.Start(context.Background())

	taskHandler := handler.NewTaskHandler(taskService, zlog)
	authHandler := handler.NewAuthHandler(authService, zlog)
	notificationHandler := handler.NewNotificationHandler(poller, zlog)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(handler.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", authHandler.Login)
	r.Post("/users", authHandler.Register)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.Create)
			r.Get("/", taskHandler.List)
			r.Get("/{id}", taskHandler.Get)
			r.Patch("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})
		r.Get("/users/profile", authHandler.Profile)
		r.Patch("/users/profile", authHandler.UpdateProfile)
		r.Get("/notifications", notificationHandler.List)
	})

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	zlog.Info("Shutting down server...")
	poller.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("Shutdown error", zap.Error(err))
	}
	zlog.Info("Server stopped")
}

func runMigrations(cfg config.Config) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
