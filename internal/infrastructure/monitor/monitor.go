package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Probe reports whether a dependency is reachable.
type Probe func(ctx context.Context) error

// Check is a named probe. Optional checks are reported but do not take the
// service offline.
type Check struct {
	Name     string
	Probe    Probe
	Optional bool
	Timeout  time.Duration
}

// BufferSizer reports the number of pending buffered writes.
type BufferSizer interface {
	Size() (int, error)
}

type Monitor struct {
	checks []Check
	buffer BufferSizer

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(checks []Check, buf BufferSizer, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		checks:   checks,
		buffer:   buf,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether every required check passed on the last refresh.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Online
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.clone()
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh(context.Background())
	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every check once and stores the result.
func (m *Monitor) Refresh(ctx context.Context) Status {
	status := Status{
		Online:     true,
		Components: make(map[string]bool, len(m.checks)),
		LastCheck:  time.Now(),
	}
	for _, check := range m.checks {
		ok := m.run(ctx, check)
		status.Components[check.Name] = ok
		if !ok && !check.Optional {
			status.Online = false
		}
	}
	status.Buffer, status.BufferSize = m.checkBuffer()

	m.mu.Lock()
	previous := m.status.Online
	m.status = status
	m.mu.Unlock()

	if !previous && status.Online {
		m.logger.Info("dependencies online")
	} else if previous && !status.Online {
		m.logger.Warn("dependencies offline", zap.Any("components", status.Components))
	}
	return status.clone()
}

func (m *Monitor) run(ctx context.Context, check Check) bool {
	if check.Probe == nil {
		return false
	}
	timeout := check.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := check.Probe(ctx); err != nil {
		m.logger.Debug("health check failed", zap.String("component", check.Name), zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkBuffer() (bool, int) {
	if m.buffer == nil {
		return false, 0
	}
	size, err := m.buffer.Size()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
