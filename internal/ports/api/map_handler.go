package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lt-line-dashboard/internal/application"
	"lt-line-dashboard/internal/infrastructure/maplib"
	"lt-line-dashboard/pkg/maplayer"
)

// MapHandler обробляє HTTP-запити до стану мапи та її шарів
type MapHandler struct {
	mapService *application.MapService
}

// NewMapHandler створює новий MapHandler
func NewMapHandler(mapService *application.MapService) *MapHandler {
	return &MapHandler{
		mapService: mapService,
	}
}

// RegisterRoutes реєструє маршрути для MapHandler
func (h *MapHandler) RegisterRoutes(r chi.Router) {
	r.Route("/map", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Post("/retry", h.Retry)
		r.Get("/layers", h.GetLayers)
	})
}

// GetState обробляє GET /map/state. Перше звернення запускає
// ліниве завантаження картографічного провайдера
func (h *MapHandler) GetState(w http.ResponseWriter, r *http.Request) {
	status := h.mapService.State(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Retry обробляє POST /map/retry
func (h *MapHandler) Retry(w http.ResponseWriter, r *http.Request) {
	status := h.mapService.Retry(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetLayers обробляє GET /map/layers
func (h *MapHandler) GetLayers(w http.ResponseWriter, r *http.Request) {
	layers, bounds, err := h.mapService.Layers(r.Context())
	if errors.Is(err, application.ErrMapNotReady) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := struct {
		Layers []maplib.LayerView `json:"layers"`
		Bounds *maplayer.Bounds   `json:"bounds,omitempty"`
	}{Layers: layers, Bounds: bounds}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
