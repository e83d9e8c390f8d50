// Package connectivity probes reachability of the remote directory. The sync
// core consults it before every reconciliation pass and on online-only read
// paths, so results are memoized for a short TTL.
package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"marketpin/config"
	"marketpin/internal/domain/service"
)

const (
	defaultProbeTTL     = 10 * time.Second
	defaultProbeTimeout = 3 * time.Second
)

type httpProbe struct {
	client   *http.Client
	probeURL string
	ttl      time.Duration
	logger   *slog.Logger

	flight singleflight.Group

	// mu guards the memo only; the network round trip runs outside it so
	// readers never block behind an in-flight probe for the lock.
	mu         sync.Mutex
	lastResult bool
	lastProbe  time.Time
}

// NewHTTPProbe builds a checker that issues a HEAD request against the
// configured probe URL.
func NewHTTPProbe(cfg *config.Config, logger *slog.Logger) service.ConnectivityChecker {
	ttl := cfg.Sync.ConnectivityTTL
	if ttl <= 0 {
		ttl = defaultProbeTTL
	}

	return &httpProbe{
		client:   &http.Client{Timeout: defaultProbeTimeout},
		probeURL: cfg.Directory.ProbeURL,
		ttl:      ttl,
		logger:   logger,
	}
}

// Online reports whether the directory endpoint answered a probe within the
// TTL window. Any HTTP response counts as online; only transport failures
// count as offline.
func (p *httpProbe) Online(ctx context.Context) bool {
	if result, ok := p.memoized(); ok {
		return result
	}

	// Concurrent callers past the memo coalesce onto a single round trip.
	result, _, _ := p.flight.Do("probe", func() (any, error) {
		if cached, ok := p.memoized(); ok {
			return cached, nil
		}

		online := p.probe(ctx)

		p.mu.Lock()
		p.lastResult = online
		p.lastProbe = time.Now()
		p.mu.Unlock()

		return online, nil
	})

	return result.(bool)
}

func (p *httpProbe) memoized() (bool, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.lastProbe) < p.ttl {
		return p.lastResult, true
	}

	return false, false
}

func (p *httpProbe) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.probeURL, nil)
	if err != nil {
		p.logger.Warn("Connectivity probe request invalid", slog.Any("error", err))

		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("Connectivity probe failed", slog.Any("error", err))

		return false
	}
	defer resp.Body.Close()

	return true
}
