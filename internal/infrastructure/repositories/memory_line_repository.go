package repositories

import (
	"context"
	"sync"

	"lt-line-dashboard/internal/domain"
)

// MemoryLineRepository імплементує LineRepository у пам'яті процесу.
// Реєстр живе лише протягом сесії сервісу та скидається при перезапуску
type MemoryLineRepository struct {
	mu    sync.RWMutex
	lines map[string]*domain.Line
	order []string
}

// NewMemoryLineRepository створює реєстр із стартового набору ліній
func NewMemoryLineRepository(seed []*domain.Line) *MemoryLineRepository {
	r := &MemoryLineRepository{
		lines: make(map[string]*domain.Line, len(seed)),
		order: make([]string, 0, len(seed)),
	}
	for _, line := range seed {
		r.lines[line.ID] = line.Clone()
		r.order = append(r.order, line.ID)
	}
	return r
}

func (r *MemoryLineRepository) FindByID(ctx context.Context, id string) (*domain.Line, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	line, ok := r.lines[id]
	if !ok {
		return nil, domain.ErrLineNotFound
	}
	return line.Clone(), nil
}

// FindAll шукає лінії за фільтрами, зберігаючи порядок стартового набору
func (r *MemoryLineRepository) FindAll(ctx context.Context, filters map[string]interface{}) ([]*domain.Line, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Line, 0, len(r.order))
	for _, id := range r.order {
		line := r.lines[id]

		if status, ok := filters["status"].(string); ok && status != "" {
			if string(line.Status) != status {
				continue
			}
		}

		result = append(result, line.Clone())
	}

	return result, nil
}

func (r *MemoryLineRepository) UpdateStatus(ctx context.Context, id string, status domain.LineStatus) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	line, ok := r.lines[id]
	if !ok {
		return domain.ErrLineNotFound
	}

	line.Status = status
	return nil
}
