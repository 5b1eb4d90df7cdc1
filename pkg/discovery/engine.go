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

// Package discovery implements the device query engines: identity
// resolution, VLAN discovery, and MAC forwarding-table sweeps.
package discovery

import (
	"strconv"
	"time"

	"github.com/go-ping/ping"
	"github.com/patrickmn/go-cache"

	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/logger"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/session"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/snmp"
)

const (
	defaultMacVlanTimeout   = 2 * time.Second
	defaultMacWalkDeadline  = 3 * time.Second
	defaultIdentityCacheTTL = 5 * time.Minute
)

// Engine runs discovery operations against devices. One Engine serves the
// whole process; every operation opens its own short-lived transport
// sessions unless the caller hands in a registry session ID.
type Engine struct {
	cfg        Config
	factory    snmp.ClientFactory
	registry   *session.Registry
	classifier Classifier
	idCache    *cache.Cache
	log        logger.Logger
}

// NewEngine builds an Engine. The registry may be nil when session-based
// MAC sweeps are not needed; the classifier defaults to HashClassifier.
func NewEngine(cfg Config, factory snmp.ClientFactory, registry *session.Registry, log logger.Logger) (*Engine, error) {
	if factory == nil {
		return nil, ErrNoFactory
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	if cfg.MacVlanTimeout <= 0 {
		cfg.MacVlanTimeout = defaultMacVlanTimeout
	}

	if cfg.MacWalkDeadline <= 0 {
		cfg.MacWalkDeadline = defaultMacWalkDeadline
	}

	if cfg.IdentityCacheTTL <= 0 {
		cfg.IdentityCacheTTL = defaultIdentityCacheTTL
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Engine{
		cfg:        cfg,
		factory:    factory,
		registry:   registry,
		classifier: HashClassifier{},
		idCache:    cache.New(cfg.IdentityCacheTTL, cfg.IdentityCacheTTL),
		log:        log.WithComponent("discovery"),
	}, nil
}

// WithClassifier swaps the OUI classifier. Call before serving requests.
func (e *Engine) WithClassifier(c Classifier) *Engine {
	if c != nil {
		e.classifier = c
	}

	return e
}

// open dials a fresh transport session for one discovery operation.
func (e *Engine) open(target, community string, version snmp.Version) (snmp.Conn, error) {
	if community == "" {
		community = snmp.DefaultCommunity
	}

	if version == "" {
		version = snmp.DefaultVersion
	}

	return e.factory.NewConn(target, snmp.ClientOptions{
		Port:      e.cfg.Port,
		Community: community,
		Version:   version,
		Timeout:   e.cfg.Timeout,
		Retries:   e.cfg.Retries,
	})
}

// vlanCommunity derives the VLAN-scoped community string. VLAN 1 is the
// default forwarding view and uses the base community unchanged.
func vlanCommunity(base string, vlanID int) string {
	if base == "" {
		base = snmp.DefaultCommunity
	}

	if vlanID == 1 {
		return base
	}

	return base + "@" + strconv.Itoa(vlanID)
}

// pingHost checks ICMP reachability before an identity query. Requires raw
// socket privileges; failures fall through to the SNMP attempt.
func pingHost(target string) bool {
	p, err := ping.NewPinger(target)
	if err != nil {
		return false
	}

	p.Timeout = time.Second
	p.SetPrivileged(true)
	p.Count = 3

	if err := p.Run(); err != nil {
		return false
	}

	return p.Statistics().PacketsRecv > 0
}
