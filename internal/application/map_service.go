package application

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"lt-line-dashboard/internal/domain"
	"lt-line-dashboard/internal/infrastructure/maplib"
	"lt-line-dashboard/internal/ports"
	"lt-line-dashboard/pkg/maplayer"
)

// ErrMapNotReady повертається, коли картографічний провайдер ще не завантажено
var ErrMapNotReady = errors.New("map provider is not ready")

// MapService зв'язує життєвий цикл картографічного провайдера з рендерером:
// після успішного завантаження підключає полотно та виводить на нього лінії
type MapService struct {
	loader        *maplib.Loader
	renderer      *maplayer.Renderer
	notifications ports.NotificationLog

	mu        sync.Mutex
	attached  bool
	lastState maplib.State
}

// NewMapService створює новий MapService
func NewMapService(loader *maplib.Loader, renderer *maplayer.Renderer, notifications ports.NotificationLog) *MapService {
	return &MapService{
		loader:        loader,
		renderer:      renderer,
		notifications: notifications,
		lastState:     maplib.StateIdle,
	}
}

// State повертає стан провайдера. Перше звернення запускає
// ліниве завантаження; невдалий стан лишається до Retry
func (s *MapService) State(ctx context.Context) maplib.Status {
	status := s.loader.Ensure(ctx)
	s.noteTransition(ctx, status)
	return status
}

// Retry повторює завантаження провайдера після невдачі
func (s *MapService) Retry(ctx context.Context) maplib.Status {
	status := s.loader.Retry(ctx)
	s.noteTransition(ctx, status)
	return status
}

// Layers повертає знімок полотна для браузерного віджета
func (s *MapService) Layers(ctx context.Context) ([]maplib.LayerView, *maplayer.Bounds, error) {
	_ = ctx

	canvas, ok := s.loader.Canvas()
	if !ok {
		return nil, nil, ErrMapNotReady
	}

	layers, bounds := canvas.Snapshot()
	return layers, bounds, nil
}

// noteTransition підключає полотно після успіху та фіксує невдачу
// системним сповіщенням, один раз на перехід у failed
func (s *MapService) noteTransition(ctx context.Context, status maplib.Status) {
	s.mu.Lock()
	previous := s.lastState
	s.lastState = status.State
	shouldAttach := status.State == maplib.StateReady && !s.attached
	s.mu.Unlock()

	if status.State == maplib.StateFailed && previous != maplib.StateFailed {
		now := time.Now()
		item := &domain.NotificationItem{
			ID:        newNotificationID(now),
			Timestamp: now,
			LineID:    domain.SystemLineID,
			Message:   "Map failed to load: " + status.Error,
		}
		if err := s.notifications.Append(ctx, item); err != nil {
			log.Printf("Error appending system notification: %v", err)
		}
	}

	if !shouldAttach {
		return
	}

	canvas, ok := s.loader.Canvas()
	if !ok {
		return
	}

	if err := s.renderer.Attach(canvas); err != nil {
		log.Printf("Error attaching map canvas: %v", err)
		return
	}

	s.mu.Lock()
	s.attached = true
	s.mu.Unlock()
}
