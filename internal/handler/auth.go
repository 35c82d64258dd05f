package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/tasknest/task-manager-api/internal/auth"
	"github.com/tasknest/task-manager-api/internal/model"
	"github.com/tasknest/task-manager-api/internal/repo"
	"github.com/tasknest/task-manager-api/internal/service"
	"github.com/tasknest/task-manager-api/pkg/respond"
)

type AuthHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(srv *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in model.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			respond.FieldError(w, r, http.StatusBadRequest, vErr.Field, vErr.Message)
		case errors.Is(err, repo.ErrorConflict):
			respond.Error(w, r, http.StatusConflict, "email already registered")
		default:
			h.logger.Error("register failed", zap.Error(err))
			respond.Error(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	respond.JSON(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.service.Login(r.Context(), creds)
	if err != nil {
		// One message for every mismatch; never say which part was wrong.
		if errors.Is(err, service.ErrInvalidCredentials) {
			respond.Error(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, r, http.StatusOK, result)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	user, err := h.service.Profile(r.Context(), identity.UserID)
	if err != nil {
		h.handleProfileErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	var in model.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), identity.UserID, in)
	if err != nil {
		h.handleProfileErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, user)
}

func (h *AuthHandler) handleProfileErrors(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		respond.FieldError(w, r, http.StatusBadRequest, vErr.Field, vErr.Message)
	case errors.Is(err, repo.ErrorConflict):
		respond.Error(w, r, http.StatusConflict, "email already registered")
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "user not found")
	default:
		h.logger.Error("profile request failed", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
