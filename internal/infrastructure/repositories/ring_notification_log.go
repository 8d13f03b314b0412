package repositories

import (
	"context"
	"sync"

	"lt-line-dashboard/internal/domain"
)

// DefaultNotificationCapacity — скільки останніх сповіщень зберігає журнал
const DefaultNotificationCapacity = 20

// RingNotificationLog імплементує NotificationLog як обмежений журнал:
// нові записи попереду, найстаріші витісняються після перевищення місткості
type RingNotificationLog struct {
	mu       sync.Mutex
	capacity int
	items    []*domain.NotificationItem
}

// NewRingNotificationLog створює журнал заданої місткості.
// Непозитивна місткість замінюється на DefaultNotificationCapacity
func NewRingNotificationLog(capacity int) *RingNotificationLog {
	if capacity <= 0 {
		capacity = DefaultNotificationCapacity
	}
	return &RingNotificationLog{capacity: capacity}
}

func (l *RingNotificationLog) Append(ctx context.Context, item *domain.NotificationItem) error {
	_ = ctx

	l.mu.Lock()
	defer l.mu.Unlock()

	cp := *item
	l.items = append([]*domain.NotificationItem{&cp}, l.items...)
	if len(l.items) > l.capacity {
		l.items = l.items[:l.capacity]
	}
	return nil
}

// FindRecent повертає сповіщення від найновішого до найстарішого
func (l *RingNotificationLog) FindRecent(ctx context.Context) ([]*domain.NotificationItem, error) {
	_ = ctx

	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]*domain.NotificationItem, len(l.items))
	for i, item := range l.items {
		cp := *item
		result[i] = &cp
	}
	return result, nil
}

func (l *RingNotificationLog) Clear(ctx context.Context) error {
	_ = ctx

	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	return nil
}
