package backend

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/metrics"
)

const (
	defaultProbeInterval = 30 * time.Second
	defaultProbeTimeout  = 3 * time.Second
)

// HealthMonitor probes GET /health on a fixed interval so screens can tell
// "backend unreachable" apart from request-level failures. It uses its own
// HTTP client and never blocks pipeline traffic; each probe is bounded by a
// timeout with explicit cancellation.
type HealthMonitor struct {
	url      string
	interval time.Duration
	timeout  time.Duration
	http     *http.Client
	log      zerolog.Logger
	up       atomic.Bool
}

func NewHealthMonitor(baseURL string, interval, timeout time.Duration, log zerolog.Logger) *HealthMonitor {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &HealthMonitor{
		url:      baseURL + "/health",
		interval: interval,
		timeout:  timeout,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Start launches the probe loop. It stops when ctx is cancelled.
func (m *HealthMonitor) Start(ctx context.Context) {
	go func() {
		m.CheckNow(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CheckNow(ctx)
			}
		}
	}()
}

// Healthy reports the result of the most recent probe.
func (m *HealthMonitor) Healthy() bool {
	return m.up.Load()
}

// CheckNow probes the backend once and records the result.
func (m *HealthMonitor) CheckNow(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	up := m.probe(probeCtx)
	metrics.HealthProbeDuration.Observe(time.Since(start).Seconds())

	previous := m.up.Swap(up)
	if up {
		metrics.BackendUp.Set(1)
		if !previous {
			m.log.Info().Str("url", m.url).Msg("backend reachable")
		}
	} else {
		metrics.BackendUp.Set(0)
		if previous {
			m.log.Warn().Str("url", m.url).Msg("backend unreachable")
		}
	}
	return up
}

func (m *HealthMonitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url, nil)
	if err != nil {
		return false
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
