package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const probeTimeout = 3 * time.Second

// Probe checks a single dependency.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// Monitor runs its probes on a cron schedule and keeps the latest result.
type Monitor struct {
	probes   []Probe
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger

	mu     sync.RWMutex
	status Status
}

func New(interval time.Duration, logger *zap.Logger, probes ...Probe) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		probes:   probes,
		interval: interval,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start runs one probe round synchronously and schedules the rest.
func (m *Monitor) Start() error {
	m.Refresh()
	if _, err := m.cron.AddFunc(fmt.Sprintf("@every %s", m.interval), m.Refresh); err != nil {
		return fmt.Errorf("schedule monitor: %w", err)
	}
	m.cron.Start()
	return nil
}

// Stop waits for a running probe round to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) error {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Monitor) IsOnline() bool {
	return m.GetStatus().Healthy()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	components := make(map[string]bool, len(m.status.Components))
	for name, ok := range m.status.Components {
		components[name] = ok
	}
	return Status{Components: components, LastCheck: m.status.LastCheck}
}

// Refresh probes every dependency once.
func (m *Monitor) Refresh() {
	components := make(map[string]bool, len(m.probes))
	for _, p := range m.probes {
		components[p.Name] = m.check(p)
	}

	m.mu.Lock()
	m.status = Status{Components: components, LastCheck: time.Now()}
	m.mu.Unlock()
}

func (m *Monitor) check(p Probe) bool {
	if p.Check == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := p.Check(ctx); err != nil {
		m.logger.Warn("dependency check failed", zap.String("component", p.Name), zap.Error(err))
		return false
	}
	return true
}
