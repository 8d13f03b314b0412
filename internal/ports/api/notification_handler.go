package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lt-line-dashboard/internal/ports"
)

// NotificationHandler обробляє HTTP-запити до журналу сповіщень
type NotificationHandler struct {
	notifications ports.NotificationLog
}

// NewNotificationHandler створює новий NotificationHandler
func NewNotificationHandler(notifications ports.NotificationLog) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
	}
}

// RegisterRoutes реєструє маршрути для NotificationHandler
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.ListNotifications)
		r.Delete("/", h.ClearNotifications)
	})
}

// ListNotifications обробляє GET /notifications: від найновішого до найстарішого
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.notifications.FindRecent(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(items); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ClearNotifications обробляє DELETE /notifications
func (h *NotificationHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.notifications.Clear(ctx); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
