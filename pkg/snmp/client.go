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

// Package snmp wraps gosnmp with a small connection API: typed GETs and
// lazy, cancelable walks over a subtree.
package snmp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/logger"
)

// Version identifies a supported SNMP protocol version.
type Version string

const (
	Version1  Version = "1"
	Version2c Version = "2c"
)

const (
	// DefaultCommunity is used when a request supplies no secret.
	DefaultCommunity = "public"
	// DefaultVersion is used when a request supplies no version.
	DefaultVersion = Version2c

	defaultPort           = 161
	defaultTimeout        = 5 * time.Second
	defaultMaxRepetitions = 10
)

// ClientOptions configures a single connection to a device.
type ClientOptions struct {
	Port      uint16
	Community string
	Version   Version
	Timeout   time.Duration
	Retries   int
}

// VarBind is one decoded (oid, value) pair from a GET response. A missing
// object (NoSuchObject/NoSuchInstance) yields a nil Value.
type VarBind struct {
	OID   string
	Value interface{}
}

// WalkItem is one element of a walk stream. A non-nil Err with a non-empty
// OID marks an item-scoped decode problem; consumers skip it. A trailing
// item with an empty OID and a non-nil Err is the walk's terminal error.
type WalkItem struct {
	OID   string
	Value interface{}
	Err   error
}

//go:generate mockgen -destination=mock_snmp.go -package=snmp github.com/jaswanthk93/nile-network-navigator-sub001/pkg/snmp Conn,ClientFactory

// Conn is the transport handle used by the discovery engines. It is
// satisfied by *Client and mocked in tests.
type Conn interface {
	Target() string
	Get(oids []string) ([]VarBind, error)
	Walk(ctx context.Context, root string) <-chan WalkItem
	Close() error
}

// ClientFactory opens connected transport handles. The default
// implementation is Dialer; tests substitute their own.
type ClientFactory interface {
	NewConn(target string, opts ClientOptions) (Conn, error)
}

// Dialer is the production ClientFactory.
type Dialer struct {
	Logger logger.Logger
}

// NewConn creates a client and dials it.
func (d *Dialer) NewConn(target string, opts ClientOptions) (Conn, error) {
	client, err := NewClient(target, opts, d.Logger)
	if err != nil {
		return nil, err
	}

	if err := client.Connect(); err != nil {
		return nil, err
	}

	return client, nil
}

// Client is a connection to a single SNMP agent.
type Client struct {
	conn   *gosnmp.GoSNMP
	target string
	log    logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewClient validates opts and builds an unconnected client.
func NewClient(target string, opts ClientOptions, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.NewTestLogger()
	}

	if opts.Port == 0 {
		opts.Port = defaultPort
	}

	if opts.Community == "" {
		opts.Community = DefaultCommunity
	}

	if opts.Version == "" {
		opts.Version = DefaultVersion
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	conn := &gosnmp.GoSNMP{
		Target:         target,
		Port:           opts.Port,
		Community:      opts.Community,
		Timeout:        opts.Timeout,
		Retries:        opts.Retries,
		MaxOids:        gosnmp.MaxOids,
		MaxRepetitions: defaultMaxRepetitions,
	}

	switch opts.Version {
	case Version1:
		conn.Version = gosnmp.Version1
	case Version2c:
		conn.Version = gosnmp.Version2c
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, opts.Version)
	}

	return &Client{
		conn:   conn,
		target: target,
		log:    log.WithComponent("snmp"),
	}, nil
}

// Target returns the address this client talks to.
func (c *Client) Target() string {
	return c.target
}

// Connect dials the agent.
func (c *Client) Connect() error {
	if err := c.conn.Connect(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConnectFailed, c.target, err)
	}

	return nil
}

// Get fetches one decoded value per requested OID, in request order.
func (c *Client) Get(oids []string) ([]VarBind, error) {
	result, err := c.conn.Get(oids)
	if err != nil {
		return nil, classifyRequestError(ErrGetFailed, err)
	}

	if result.Error != gosnmp.NoError {
		return nil, fmt.Errorf("%w: %s", ErrPDUError, result.Error)
	}

	binds := make([]VarBind, 0, len(result.Variables))

	for _, pdu := range result.Variables {
		if pdu.Type == gosnmp.NoSuchObject || pdu.Type == gosnmp.NoSuchInstance {
			binds = append(binds, VarBind{OID: pdu.Name})
			continue
		}

		value, decodeErr := DecodeValue(pdu)
		if decodeErr != nil {
			c.log.Debug().Str("oid", pdu.Name).Err(decodeErr).Msg("Skipping undecodable varbind")

			binds = append(binds, VarBind{OID: pdu.Name})

			continue
		}

		binds = append(binds, VarBind{OID: pdu.Name, Value: value})
	}

	return binds, nil
}

// Walk lazily streams the subtree beneath root. The channel closes when the
// subtree is exhausted, the walk fails (terminal WalkItem with empty OID and
// Err set), or ctx is canceled. Sends race ctx so an abandoned walk never
// blocks; items produced after cancellation are dropped.
func (c *Client) Walk(ctx context.Context, root string) <-chan WalkItem {
	out := make(chan WalkItem)

	walkFn := c.conn.Walk
	if c.conn.Version == gosnmp.Version2c {
		walkFn = c.conn.BulkWalk
	}

	go func() {
		defer close(out)

		err := walkFn(root, func(pdu gosnmp.SnmpPDU) error {
			item := WalkItem{OID: pdu.Name}

			value, decodeErr := DecodeValue(pdu)
			if decodeErr != nil {
				item.Err = decodeErr
			} else {
				item.Value = value
			}

			select {
			case out <- item:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		if err == nil || ctx.Err() != nil {
			return
		}

		select {
		case out <- WalkItem{Err: classifyRequestError(ErrWalkFailed, err)}:
		case <-ctx.Done():
		}
	}()

	return out
}

// Close releases the underlying socket. Safe to call multiple times.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true

	if c.conn.Conn == nil {
		return nil
	}

	return c.conn.Conn.Close()
}

// classifyRequestError maps gosnmp failures onto the package sentinels.
// Deadline expiry usually surfaces as a net.Error or os.ErrDeadlineExceeded;
// gosnmp also synthesizes a plain "request timeout" string after exhausting
// retries, so the string match stays as a fallback.
func classifyRequestError(op error, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrRequestTimeout, err)
	}

	if errors.Is(err, os.ErrDeadlineExceeded) || strings.Contains(err.Error(), "request timeout") {
		return fmt.Errorf("%w: %w", ErrRequestTimeout, err)
	}

	return fmt.Errorf("%w: %w", op, err)
}
