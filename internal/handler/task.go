package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tasknest/task-manager-api/internal/auth"
	"github.com/tasknest/task-manager-api/internal/model"
	"github.com/tasknest/task-manager-api/internal/repo"
	"github.com/tasknest/task-manager-api/internal/service"
	"github.com/tasknest/task-manager-api/pkg/respond"
)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var in model.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task, err := h.service.Create(r.Context(), identity.UserID, in)
	if err != nil {
		h.handleErrors(w, r, err, "")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/tasks/%s", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "invalid or missing token")
		return
	}
	id := chi.URLParam(r, "id")

	task, err := h.service.Get(r.Context(), id, identity.UserID)
	if err != nil {
		h.handleErrors(w, r, err, id)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	q := r.URL.Query()
	filter := model.TaskFilter{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	page, err := h.service.List(r.Context(), identity.UserID, filter)
	if err != nil {
		h.handleErrors(w, r, err, "")
		return
	}
	respond.JSON(w, r, http.StatusOK, page)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "invalid or missing token")
		return
	}
	id := chi.URLParam(r, "id")

	var in model.UpdateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := h.service.Update(r.Context(), id, identity.UserID, in)
	if err != nil {
		h.handleErrors(w, r, err, id)
		return
	}

	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "invalid or missing token")
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id, identity.UserID); err != nil {
		h.handleErrors(w, r, err, id)
		return
	}

	respond.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "Task deleted successfully",
	})
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error, id string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		respond.FieldError(w, r, http.StatusBadRequest, vErr.Field, vErr.Message)
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, fmt.Sprintf("task with ID %s not found", id))
	case errors.Is(err, repo.ErrorConflict):
		respond.Error(w, r, http.StatusConflict, "conflict")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
