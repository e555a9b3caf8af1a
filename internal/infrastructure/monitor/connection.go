package monitor

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kabulqd1101/kanban/internal/infrastructure/genai"
	"github.com/kabulqd1101/kanban/internal/infrastructure/reportstore"
)

// Monitor periodically inspects the report archive and the external
// collaborator credential so the health endpoint has a current view.
type Monitor struct {
	archive   *reportstore.Store
	generator genai.Generator

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(archive *reportstore.Store, generator genai.Generator, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		archive:   archive,
		generator: generator,
		interval:  interval,
		stopCh:    make(chan struct{}),
		logger:    logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Archive
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	m.check()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.check()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) check() {
	status := Status{
		Collaborator: m.generator != nil && m.generator.Configured(),
		LastCheck:    time.Now(),
	}

	if m.archive != nil {
		size, err := m.archive.Size()
		if err != nil {
			m.logger.Warn("report archive unavailable", zap.Error(err))
		} else {
			status.Archive = true
			status.ArchiveSize = size
		}
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}
