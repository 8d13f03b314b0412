package application

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"lt-line-dashboard/internal/domain"
	"lt-line-dashboard/internal/observability/metrics"
	"lt-line-dashboard/internal/ports"
)

// csvHeader — фіксований заголовок експортованого звіту
var csvHeader = []string{"Line ID", "Name", "Status"}

// UptimeWeights — внески статусів у відсоток доступності.
// Константи 99.5/70/0 ілюстративні, тому винесені в налаштування,
// а не зашиті у формулу
type UptimeWeights struct {
	Healthy float64
	Fault   float64
	Shutoff float64
}

// DefaultUptimeWeights повертає документовані значення ваг
func DefaultUptimeWeights() UptimeWeights {
	return UptimeWeights{Healthy: 99.5, Fault: 70, Shutoff: 0}
}

// ReportService рахує похідну статистику за поточними статусами ліній.
// Стану не має: кожен виклик читає реєстр заново
type ReportService struct {
	lineRepo     ports.LineRepository
	weights      UptimeWeights
	exportPrefix string
	now          func() time.Time
}

// NewReportService створює новий ReportService
func NewReportService(lineRepo ports.LineRepository, weights UptimeWeights, exportPrefix string) *ReportService {
	if exportPrefix == "" {
		exportPrefix = "lt-line-report"
	}
	return &ReportService{
		lineRepo:     lineRepo,
		weights:      weights,
		exportPrefix: exportPrefix,
		now:          time.Now,
	}
}

// Generate рахує кількість ліній за статусами та зважену оцінку доступності,
// округлену до одного знака
func (s *ReportService) Generate(ctx context.Context) (*domain.Report, error) {
	lines, err := s.lineRepo.FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{Total: len(lines)}
	for _, line := range lines {
		switch line.Status {
		case domain.LineStatusHealthy:
			report.Healthy++
		case domain.LineStatusFault:
			report.Fault++
		case domain.LineStatusShutoff:
			report.Shutoff++
		}
	}

	if report.Total > 0 {
		raw := (float64(report.Healthy)*s.weights.Healthy +
			float64(report.Fault)*s.weights.Fault +
			float64(report.Shutoff)*s.weights.Shutoff) / float64(report.Total)
		report.Uptime = math.Round(raw*10) / 10
	}

	return report, nil
}

// ExportCSV серіалізує (id, назва, статус) кожної лінії.
// Кожне поле береться в подвійні лапки; ім'я файлу містить поточну дату
func (s *ReportService) ExportCSV(ctx context.Context) ([]byte, string, error) {
	lines, err := s.lineRepo.FindAll(ctx, nil)
	if err != nil {
		return nil, "", err
	}

	var b strings.Builder
	writeCSVRow(&b, csvHeader...)
	for _, line := range lines {
		writeCSVRow(&b, line.ID, line.Name, string(line.Status))
	}

	filename := fmt.Sprintf("%s-%s.csv", s.exportPrefix, s.now().Format("2006-01-02"))

	metrics.IncCSVExport()
	return []byte(b.String()), filename, nil
}

func writeCSVRow(b *strings.Builder, fields ...string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
