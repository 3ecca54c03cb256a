// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
)

// ProbeFunc checks whether the remote backend is reachable. A nil error
// means online.
type ProbeFunc func(ctx context.Context) error

// connectivityHub fans state transitions out to subscribers. Each subscriber
// owns a one-slot channel; a pending stale value is replaced by the newest
// one so publishing never blocks.
type connectivityHub struct {
	mu     sync.Mutex
	online bool
	subs   map[int]chan bool
	nextID int
}

func newConnectivityHub(online bool) *connectivityHub {
	return &connectivityHub{online: online, subs: make(map[int]chan bool)}
}

func (h *connectivityHub) IsOnline() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.online
}

func (h *connectivityHub) Subscribe() (<-chan bool, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan bool, 1)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// set records the state and reports whether it changed.
func (h *connectivityHub) set(online bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.online == online {
		return false
	}
	h.online = online

	for _, ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- online
	}
	return true
}

// StaticConnectivity is a [ConnectivitySignal] driven by hand. It serves
// runs without a probe and tests.
type StaticConnectivity struct {
	*connectivityHub
}

func NewStaticConnectivity(online bool) *StaticConnectivity {
	return &StaticConnectivity{connectivityHub: newConnectivityHub(online)}
}

// SetOnline changes the state and notifies subscribers on a transition.
func (s *StaticConnectivity) SetOnline(online bool) {
	s.set(online)
}

// ProbeConnectivity polls a [ProbeFunc] and turns its results into
// online/offline transitions.
type ProbeConnectivity struct {
	*connectivityHub

	probe    ProbeFunc
	interval time.Duration
	timeout  time.Duration
	logger   *logger.Logger
}

// NewProbeConnectivity returns a signal that starts offline until the first
// probe succeeds. Call Run to start probing.
func NewProbeConnectivity(probe ProbeFunc, interval, timeout time.Duration, logger *logger.Logger) *ProbeConnectivity {
	return &ProbeConnectivity{
		connectivityHub: newConnectivityHub(false),
		probe:           probe,
		interval:        interval,
		timeout:         timeout,
		logger:          logger,
	}
}

// Check runs the probe once and publishes the result.
func (p *ProbeConnectivity) Check(ctx context.Context) bool {
	probeCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	err := p.probe(probeCtx)
	online := err == nil
	if p.set(online) {
		event := p.logger.Info()
		if !online {
			event = p.logger.Warn().Err(err)
		}
		event.Str("func", "ProbeConnectivity.Check").Bool("online", online).Msg("connectivity changed")
	}
	return online
}

// Run probes immediately and then every interval until ctx is done.
func (p *ProbeConnectivity) Run(ctx context.Context) error {
	p.Check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}
