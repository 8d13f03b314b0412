package ports

import (
	"context"

	"lt-line-dashboard/internal/domain"
)

// LineRepository визначає методи для роботи з реєстром ліній
type LineRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Line, error)
	FindAll(ctx context.Context, filters map[string]interface{}) ([]*domain.Line, error)
	UpdateStatus(ctx context.Context, id string, status domain.LineStatus) error
}

// NotificationLog визначає методи для роботи з журналом сповіщень
type NotificationLog interface {
	Append(ctx context.Context, item *domain.NotificationItem) error
	FindRecent(ctx context.Context) ([]*domain.NotificationItem, error)
	Clear(ctx context.Context) error
}

// EventPublisher розсилає події зміни статусу підключеним клієнтам дашборда
type EventPublisher interface {
	PublishStatus(event domain.StatusEvent)
}
