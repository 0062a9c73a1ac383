package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Monitor struct {
	probes []Probe

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(probes []Probe, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		probes:   probes,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

// Start runs one check synchronously and then keeps checking in the
// background until Stop.
func (m *Monitor) Start() {
	m.Refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Storage
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status := m.status
	status.Components = append([]ComponentStatus(nil), m.status.Components...)
	return status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every probe once and records the result.
func (m *Monitor) Refresh() {
	status := Status{
		Storage:    len(m.probes) > 0,
		Components: make([]ComponentStatus, 0, len(m.probes)),
	}
	for _, p := range m.probes {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := p.Check(ctx)
		cancel()

		component := ComponentStatus{Name: p.Name(), Healthy: err == nil}
		if err != nil {
			component.Error = err.Error()
			status.Storage = false
			m.logger.Warn("storage check failed", zap.String("component", p.Name()), zap.Error(err))
		}
		status.Components = append(status.Components, component)
	}
	status.LastCheck = time.Now()

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}
