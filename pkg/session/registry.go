/*
 * Copyright 2026 Nile Network Navigator Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package session maintains the process-wide registry of open SNMP
// transport sessions and reaps the idle ones.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/logger"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/snmp"
)

const (
	defaultIdleTimeout   = 30 * time.Minute
	defaultSweepInterval = 5 * time.Minute
)

var (
	// ErrSessionNotFound occurs when a session ID is unknown or already evicted.
	ErrSessionNotFound = errors.New("session not found")
)

// Config controls session expiry.
type Config struct {
	IdleTimeout   time.Duration `json:"-"`
	SweepInterval time.Duration `json:"-"`
}

// UnmarshalJSON accepts Go duration strings for both intervals.
func (c *Config) UnmarshalJSON(data []byte) error {
	aux := struct {
		IdleTimeout   string `json:"idle_timeout"`
		SweepInterval string `json:"sweep_interval"`
	}{}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.IdleTimeout != "" {
		d, err := time.ParseDuration(aux.IdleTimeout)
		if err != nil {
			return fmt.Errorf("invalid idle_timeout %q: %w", aux.IdleTimeout, err)
		}

		c.IdleTimeout = d
	}

	if aux.SweepInterval != "" {
		d, err := time.ParseDuration(aux.SweepInterval)
		if err != nil {
			return fmt.Errorf("invalid sweep_interval %q: %w", aux.SweepInterval, err)
		}

		c.SweepInterval = d
	}

	return nil
}

// Session is one registry entry. The registry owns the transport handle;
// callers must not close it themselves. Community and Version are kept so
// operations addressed by session ID reuse the credentials the session was
// opened with.
type Session struct {
	ID           string
	Target       string
	Community    string
	Version      snmp.Version
	Conn         snmp.Conn
	CreatedAt    time.Time
	LastActivity time.Time
}

// Registry maps opaque session IDs to open transport handles. All mutations
// are serialized against the reaper sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	factory snmp.ClientFactory
	clock   func() time.Time
	cfg     Config
	log     logger.Logger

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRegistry builds a registry. The clock defaults to time.Now; tests
// inject their own via WithClock for deterministic reaper behavior.
func NewRegistry(cfg Config, factory snmp.ClientFactory, log logger.Logger) *Registry {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
		clock:    time.Now,
		cfg:      cfg,
		log:      log.WithComponent("session"),
		done:     make(chan struct{}),
	}
}

// WithClock replaces the registry's time source. Call before Start.
func (r *Registry) WithClock(clock func() time.Time) *Registry {
	r.clock = clock
	return r
}

// Start launches the background reaper.
func (r *Registry) Start(ctx context.Context) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-r.done:
				return
			case <-ticker.C:
				r.EvictIdle()
			}
		}
	}()

	r.log.Info().
		Dur("idle_timeout", r.cfg.IdleTimeout).
		Dur("sweep_interval", r.cfg.SweepInterval).
		Msg("Session registry started")
}

// Stop halts the reaper and closes every remaining session.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if err := s.Conn.Close(); err != nil {
			r.log.Warn().Str("session_id", id).Err(err).Msg("Failed to close session on shutdown")
		}

		delete(r.sessions, id)
	}
}

// Connect opens a transport to target and registers it under a fresh ID.
func (r *Registry) Connect(target, community string, version snmp.Version, port uint16) (string, error) {
	conn, err := r.factory.NewConn(target, snmp.ClientOptions{
		Port:      port,
		Community: community,
		Version:   version,
	})
	if err != nil {
		return "", fmt.Errorf("connect to %s: %w", target, err)
	}

	now := r.clock()
	s := &Session{
		ID:           uuid.New().String(),
		Target:       target,
		Community:    community,
		Version:      version,
		Conn:         conn,
		CreatedAt:    now,
		LastActivity: now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.log.Info().Str("session_id", s.ID).Str("target", target).Msg("Session opened")

	return s.ID, nil
}

// Get returns the session's transport and touches its activity timestamp.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.LastActivity = r.clock()

	return s, nil
}

// Touch updates LastActivity after a successful operation on the session.
func (r *Registry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.LastActivity = r.clock()
	}
}

// Disconnect closes the session's transport and evicts it. There is no
// auto-reconnect; a transport-level error also lands here.
func (r *Registry) Disconnect(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	if err := s.Conn.Close(); err != nil {
		return fmt.Errorf("close session %s: %w", id, err)
	}

	r.log.Info().Str("session_id", id).Msg("Session closed")

	return nil
}

// Count exposes the live session count for diagnostics.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// EvictIdle closes and removes every session idle longer than IdleTimeout.
// Close failures are logged and do not stop the sweep.
func (r *Registry) EvictIdle() {
	cutoff := r.clock().Add(-r.cfg.IdleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if s.LastActivity.After(cutoff) {
			continue
		}

		if err := s.Conn.Close(); err != nil {
			r.log.Warn().Str("session_id", id).Err(err).Msg("Failed to close idle session")
		}

		delete(r.sessions, id)

		r.log.Info().Str("session_id", id).Str("target", s.Target).Msg("Evicted idle session")
	}
}
