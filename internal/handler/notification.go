package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/tasknest/task-manager-api/internal/auth"
	"github.com/tasknest/task-manager-api/internal/worker"
	"github.com/tasknest/task-manager-api/pkg/respond"
)

type NotificationHandler struct {
	poller *worker.Poller
	logger *zap.Logger
}

func NewNotificationHandler(poller *worker.Poller, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		poller: poller,
		logger: logger,
	}
}

// List returns the caller's due-soon notifications from the most recent
// successful evaluation cycle.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	respond.JSON(w, r, http.StatusOK, h.poller.Notifications(identity.UserID))
}
