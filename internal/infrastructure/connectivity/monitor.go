// Package connectivity tracks whether the sales service is reachable from the
// device and turns that into a stream of events for the sync coordinator.
package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type EventKind int

const (
	EventOnline EventKind = iota + 1
	EventOffline
	// EventTick is emitted every sync interval while online, whether or not a
	// transition happened.
	EventTick
)

func (k EventKind) String() string {
	switch k {
	case EventOnline:
		return "online"
	case EventOffline:
		return "offline"
	case EventTick:
		return "tick"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind EventKind
	At   time.Time
}

// Prober checks reachability once. A nil error means online.
type Prober interface {
	Probe(ctx context.Context) error
}

type TransitionRecorder interface {
	RecordTransition(online bool)
}

type Config struct {
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
	SyncInterval  time.Duration
}

type Monitor struct {
	prober  Prober
	cfg     Config
	logger  *zap.Logger
	metrics TransitionRecorder

	mu     sync.Mutex
	online atomic.Bool
	events chan Event
}

func NewMonitor(prober Prober, cfg Config, logger *zap.Logger, metrics TransitionRecorder) *Monitor {
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = 5 * time.Second
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 3 * time.Second
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 30 * time.Second
	}
	return &Monitor{
		prober:  prober,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		events:  make(chan Event, 16),
	}
}

func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// Events delivers every transition exactly once. Ticks are dropped when the
// consumer is behind.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Report feeds an observation into the monitor. Probes use it, and so can an
// OS network-change notification.
func (m *Monitor) Report(ctx context.Context, online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.online.Load() == online {
		return
	}
	m.online.Store(online)

	kind := EventOffline
	if online {
		kind = EventOnline
	}
	if m.metrics != nil {
		m.metrics.RecordTransition(online)
	}
	m.logger.Info("connectivity changed", zap.Stringer("state", kind))

	select {
	case m.events <- Event{Kind: kind, At: time.Now()}:
	case <-ctx.Done():
	}
}

// Run probes until ctx is done. The monitor starts offline, so the first
// successful probe produces an online transition.
func (m *Monitor) Run(ctx context.Context) {
	probeTicker := time.NewTicker(m.cfg.ProbeInterval)
	defer probeTicker.Stop()
	syncTicker := time.NewTicker(m.cfg.SyncInterval)
	defer syncTicker.Stop()

	m.logger.Info("starting connectivity monitor",
		zap.Duration("probe_interval", m.cfg.ProbeInterval),
		zap.Duration("sync_interval", m.cfg.SyncInterval),
	)
	m.probe(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("stopping connectivity monitor")
			return
		case <-probeTicker.C:
			m.probe(ctx)
		case <-syncTicker.C:
			if m.IsOnline() {
				m.tick()
			}
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
	err := m.prober.Probe(probeCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		m.logger.Debug("sales service unreachable", zap.Error(err))
	}
	m.Report(ctx, err == nil)
}

func (m *Monitor) tick() {
	select {
	case m.events <- Event{Kind: EventTick, At: time.Now()}:
	default:
		m.logger.Debug("sync tick dropped, consumer busy")
	}
}
