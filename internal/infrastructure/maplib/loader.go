package maplib

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"lt-line-dashboard/internal/observability/metrics"
)

// Стани завантаження картографічного провайдера
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Status — видимий клієнтам стан провайдера
type Status struct {
	State State  `json:"state"`
	Error string `json:"error,omitempty"`
}

// Loader відповідає за ліниве завантаження картографічного провайдера:
// одна процедура ініціалізації, яку можна повторити вручну після невдачі.
// Перевіряє доступність бібліотеки мапи та одного тайла по HTTP
type Loader struct {
	client     *http.Client
	libraryURL string
	tileURL    string

	mu      sync.Mutex
	state   State
	lastErr string
	canvas  *Canvas
}

// NewLoader створює новий Loader у стані idle
func NewLoader(libraryURL, tileURL string, client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Loader{
		client:     client,
		libraryURL: libraryURL,
		tileURL:    tileURL,
		state:      StateIdle,
	}
}

// Status повертає поточний стан без спроби завантаження
func (l *Loader) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status{State: l.state, Error: l.lastErr}
}

// Ensure виконує ліниву ініціалізацію: перша звернення запускає
// завантаження, невдалий стан лишається до ручного Retry
func (l *Loader) Ensure(ctx context.Context) Status {
	l.mu.Lock()
	if l.state != StateIdle {
		status := Status{State: l.state, Error: l.lastErr}
		l.mu.Unlock()
		return status
	}
	l.mu.Unlock()

	return l.attempt(ctx)
}

// Retry повторює ту саму процедуру ініціалізації після невдачі
func (l *Loader) Retry(ctx context.Context) Status {
	l.mu.Lock()
	if l.state == StateReady || l.state == StateLoading {
		status := Status{State: l.state, Error: l.lastErr}
		l.mu.Unlock()
		return status
	}
	l.mu.Unlock()

	return l.attempt(ctx)
}

// Canvas повертає полотно мапи, доступне лише у стані ready
func (l *Loader) Canvas() (*Canvas, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateReady {
		return nil, false
	}
	return l.canvas, true
}

func (l *Loader) attempt(ctx context.Context) Status {
	l.mu.Lock()
	if l.state == StateLoading || l.state == StateReady {
		status := Status{State: l.state, Error: l.lastErr}
		l.mu.Unlock()
		return status
	}
	l.state = StateLoading
	l.lastErr = ""
	l.mu.Unlock()

	err := l.probe(ctx)
	metrics.IncProviderLoad(err == nil)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = StateFailed
		l.lastErr = err.Error()
	} else {
		l.canvas = NewCanvas()
		l.state = StateReady
	}
	return Status{State: l.state, Error: l.lastErr}
}

// probe перевіряє обидва зовнішні ресурси, від яких залежить мапа
func (l *Loader) probe(ctx context.Context) error {
	if err := l.fetch(ctx, l.libraryURL); err != nil {
		return fmt.Errorf("map library is unavailable: %w", err)
	}
	if err := l.fetch(ctx, probeTileURL(l.tileURL)); err != nil {
		return fmt.Errorf("map tiles are unavailable: %w", err)
	}
	return nil
}

func (l *Loader) fetch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return nil
}

// probeTileURL підставляє нульовий тайл у шаблон тайлового сервера
func probeTileURL(template string) string {
	return strings.NewReplacer(
		"{z}", "0",
		"{x}", "0",
		"{y}", "0",
		"{s}", "a",
	).Replace(template)
}
