package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lt-line-dashboard/internal/application"
)

// ReportHandler обробляє HTTP-запити до звітів
type ReportHandler struct {
	reportService *application.ReportService
}

// NewReportHandler створює новий ReportHandler
func NewReportHandler(reportService *application.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// RegisterRoutes реєструє маршрути для ReportHandler
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/report", func(r chi.Router) {
		r.Get("/", h.GetReport)
		r.Get("/export", h.ExportCSV)
	})
}

// GetReport обробляє GET /report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.reportService.Generate(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ExportCSV обробляє GET /report/export: віддає звіт як файл для завантаження
func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, filename, err := h.reportService.ExportCSV(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
