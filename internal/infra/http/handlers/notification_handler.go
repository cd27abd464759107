package handlers

import (
	"net/http"

	"github.com/xavierca1/lead-console/internal/usecase"
)

// Drainer is satisfied by notify.Recorder.
type Drainer interface {
	Drain() []usecase.Notification
}

type NotificationHandler struct {
	Recorder Drainer
}

func NewNotificationHandler(recorder Drainer) *NotificationHandler {
	return &NotificationHandler{Recorder: recorder}
}

// Handle returns the notifications raised since the previous call, oldest first.
func (h *NotificationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	out := h.Recorder.Drain()
	if out == nil {
		out = []usecase.Notification{}
	}
	writeJSON(w, http.StatusOK, out)
}
