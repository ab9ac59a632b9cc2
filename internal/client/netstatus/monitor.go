// Package netstatus отслеживает доступность сервера.
package netstatus

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Monitor хранит текущее состояние сети и оповещает подписчиков об изменениях
type Monitor struct {
	observers map[int]func(bool)
	mu        sync.Mutex
	nextID    int
	connected bool
}

// NewMonitor создает монитор с начальным состоянием
func NewMonitor(connected bool) *Monitor {
	return &Monitor{
		observers: make(map[int]func(bool)),
		connected: connected,
	}
}

// Connected возвращает текущее состояние
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Set меняет состояние. Подписчики вызываются только при фактическом изменении.
func (m *Monitor) Set(connected bool) {
	m.mu.Lock()
	if m.connected == connected {
		m.mu.Unlock()
		return
	}
	m.connected = connected
	observers := make([]func(bool), 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}
	m.mu.Unlock()

	for _, fn := range observers {
		fn(connected)
	}
}

// SubscribeConnectivity регистрирует обработчик изменений
func (m *Monitor) SubscribeConnectivity(fn func(connected bool)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.observers[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.observers, id)
	}
}

// HealthChecker проверяет доступность сервера
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthCheckFunc адаптер функции к HealthChecker
type HealthCheckFunc func(ctx context.Context) error

// Check вызывает f(ctx)
func (f HealthCheckFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// DefaultPollInterval интервал опроса сервера
const DefaultPollInterval = 5 * time.Second

// Poller периодически проверяет сервер и обновляет Monitor
type Poller struct {
	checker  HealthChecker
	monitor  *Monitor
	logger   *slog.Logger
	interval time.Duration
}

// NewPoller создает опросчик. interval <= 0 заменяется DefaultPollInterval.
func NewPoller(checker HealthChecker, monitor *Monitor, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		checker:  checker,
		monitor:  monitor,
		logger:   logger,
		interval: interval,
	}
}

// Poll выполняет одну проверку и возвращает полученное состояние
func (p *Poller) Poll(ctx context.Context) bool {
	checkCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	err := p.checker.Check(checkCtx)
	if err != nil && ctx.Err() != nil {
		// остановка опроса не означает потерю сети
		return p.monitor.Connected()
	}

	connected := err == nil
	if connected != p.monitor.Connected() {
		if connected {
			p.logger.Info("Server is reachable")
		} else {
			p.logger.Warn("Server is unreachable", "error", err)
		}
	}
	p.monitor.Set(connected)
	return connected
}

// Run опрашивает сервер до отмены ctx. Первая проверка выполняется сразу.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}
