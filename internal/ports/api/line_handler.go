package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lt-line-dashboard/internal/application"
	"lt-line-dashboard/internal/domain"
)

// LineHandler обробляє HTTP-запити, пов'язані з лініями
type LineHandler struct {
	lineService *application.LineService
}

// NewLineHandler створює новий LineHandler
func NewLineHandler(lineService *application.LineService) *LineHandler {
	return &LineHandler{
		lineService: lineService,
	}
}

// RegisterRoutes реєструє маршрути для LineHandler
func (h *LineHandler) RegisterRoutes(r chi.Router) {
	r.Route("/lines", func(r chi.Router) {
		r.Get("/", h.ListLines)
		r.Post("/simulate-fault", h.SimulateFault)
		r.Put("/{id}/status", h.UpdateLineStatus)
		r.Put("/{id}/visibility", h.UpdateLineVisibility)
	})
}

// ListLines обробляє GET /lines
func (h *LineHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filters := make(map[string]interface{})
	if status := r.URL.Query().Get("status"); status != "" {
		filters["status"] = status
	}

	lines, err := h.lineService.ListLines(ctx, filters)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(lines); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateLineStatus обробляє PUT /lines/{id}/status
func (h *LineHandler) UpdateLineStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var request struct {
		Status string `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := domain.LineStatus(request.Status)
	if !status.Valid() {
		http.Error(w, "Invalid line status", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	_, err := h.lineService.SetStatus(ctx, id, status)
	if errors.Is(err, domain.ErrLineNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateLineVisibility обробляє PUT /lines/{id}/visibility
func (h *LineHandler) UpdateLineVisibility(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var request struct {
		Visible bool `json:"visible"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	err := h.lineService.ToggleVisibility(ctx, id, request.Visible)
	if errors.Is(err, domain.ErrLineNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SimulateFault обробляє POST /lines/simulate-fault
func (h *LineHandler) SimulateFault(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	event, err := h.lineService.SimulateFault(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Немає жодної лінії поза аварією — симуляція нічого не змінила
	if event == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(event); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
