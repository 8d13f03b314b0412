package application

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lt-line-dashboard/internal/domain"
	"lt-line-dashboard/internal/observability/metrics"
	"lt-line-dashboard/internal/ports"
	"lt-line-dashboard/pkg/maplayer"
)

// LineService відповідає за бізнес-логіку статусів ліній.
// Мутації реєстру серіалізуються: один логічний писач, як і в
// оригінальному односторінковому дашборді
type LineService struct {
	mu            sync.Mutex
	lineRepo      ports.LineRepository
	notifications ports.NotificationLog
	renderer      *maplayer.Renderer
	publisher     ports.EventPublisher
	rng           *rand.Rand
}

// LineView — лінія разом із прапорцем видимості на мапі
type LineView struct {
	domain.Line
	Hidden bool `json:"hidden"`
}

// NewLineService створює новий екземпляр LineService.
// publisher може бути nil; rng nil означає джерело, засіяне часом
func NewLineService(
	lineRepo ports.LineRepository,
	notifications ports.NotificationLog,
	renderer *maplayer.Renderer,
	publisher ports.EventPublisher,
	rng *rand.Rand,
) *LineService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &LineService{
		lineRepo:      lineRepo,
		notifications: notifications,
		renderer:      renderer,
		publisher:     publisher,
		rng:           rng,
	}
}

// ListLines отримує список ліній з можливістю фільтрації за статусом
func (s *LineService) ListLines(ctx context.Context, filters map[string]interface{}) ([]LineView, error) {
	lines, err := s.lineRepo.FindAll(ctx, filters)
	if err != nil {
		return nil, err
	}

	views := make([]LineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, LineView{Line: *line, Hidden: s.renderer.Hidden(line.ID)})
	}
	return views, nil
}

// SetStatus оновлює статус лінії, додає рівно одне сповіщення
// та перестворює шари лінії на мапі
func (s *LineService) SetStatus(ctx context.Context, lineID string, status domain.LineStatus) (*domain.StatusEvent, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown line status: %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setStatusLocked(ctx, lineID, status)
}

// SimulateFault рівноімовірно обирає лінію, яка ще не в аварії,
// та переводить її у статус fault. Якщо кандидатів немає — no-op
func (s *LineService) SimulateFault(ctx context.Context) (*domain.StatusEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.lineRepo.FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	var candidates []*domain.Line
	for _, line := range lines {
		if line.Status != domain.LineStatusFault {
			candidates = append(candidates, line)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	pick := candidates[s.rng.Intn(len(candidates))]
	event, err := s.setStatusLocked(ctx, pick.ID, domain.LineStatusFault)
	if err != nil {
		return nil, err
	}

	metrics.IncFaultSimulation()
	return event, nil
}

// ToggleVisibility ховає або показує лінію на мапі, не чіпаючи її статус
func (s *LineService) ToggleVisibility(ctx context.Context, lineID string, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Шарами можна керувати лише для лінії, що існує в реєстрі
	if _, err := s.lineRepo.FindByID(ctx, lineID); err != nil {
		return err
	}

	return s.renderer.SetVisible(lineID, visible)
}

// SyncAll виводить усі лінії реєстру в рендерер. Викликається один раз
// при старті, щоб облік шарів існував ще до готовності мапи
func (s *LineService) SyncAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.lineRepo.FindAll(ctx, nil)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if err := s.renderer.SyncLine(line.ID, line.Name, string(line.Status), toPoints(line.Path)); err != nil {
			return err
		}
	}
	return nil
}

func (s *LineService) setStatusLocked(ctx context.Context, lineID string, status domain.LineStatus) (*domain.StatusEvent, error) {
	line, err := s.lineRepo.FindByID(ctx, lineID)
	if err != nil {
		return nil, err
	}

	if err := s.lineRepo.UpdateStatus(ctx, lineID, status); err != nil {
		return nil, err
	}
	line.Status = status

	now := time.Now()
	item := &domain.NotificationItem{
		ID:        newNotificationID(now),
		Timestamp: now,
		LineID:    lineID,
		Message:   fmt.Sprintf("%s status changed to %s", line.Name, strings.ToUpper(string(status))),
		Status:    status,
	}
	if err := s.notifications.Append(ctx, item); err != nil {
		return nil, err
	}

	// Помилка рендерингу не скасовує зміну статусу
	if err := s.renderer.SyncLine(lineID, line.Name, string(status), toPoints(line.Path)); err != nil {
		log.Printf("Error syncing map layers for line %s: %v", lineID, err)
	}

	metrics.IncStatusChange(string(status))

	event := &domain.StatusEvent{Line: line, Notification: item}
	if s.publisher != nil {
		s.publisher.PublishStatus(*event)
	}

	return event, nil
}

// newNotificationID складає ідентифікатор із часу та випадкової частини
func newNotificationID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

func toPoints(path []domain.GeoPoint) []maplayer.Point {
	points := make([]maplayer.Point, len(path))
	for i, p := range path {
		points[i] = maplayer.Point{Lat: p.Latitude, Lon: p.Longitude}
	}
	return points
}
