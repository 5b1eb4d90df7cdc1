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

package discovery

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/snmp"
)

// TargetRequest addresses one device for an identity or VLAN query.
type TargetRequest struct {
	Target    string       `json:"target"`
	Community string       `json:"community"`
	Version   snmp.Version `json:"version"`
}

// DeviceInfo is the immutable result of a device identity query. Fields the
// device did not answer for stay empty.
type DeviceInfo struct {
	Target       string `json:"target"`
	SysDescr     string `json:"sys_descr"`
	SysObjectID  string `json:"sys_object_id"`
	SysName      string `json:"sys_name"`
	SysLocation  string `json:"sys_location"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	ExactModel   string `json:"exact_model,omitempty"`
	DeviceType   string `json:"device_type"`
}

// Vlan is one validated, active VLAN on a device.
type Vlan struct {
	VlanID int      `json:"vlan_id"`
	Name   string   `json:"name"`
	State  string   `json:"state"`
	UsedBy []string `json:"used_by"`
}

// InvalidVlan records a VLAN entry rejected during discovery, with the
// reason it was rejected.
type InvalidVlan struct {
	VlanID int    `json:"vlan_id"`
	Reason string `json:"reason"`
}

// Rejection reasons reported in InvalidVlan entries.
const (
	ReasonInvalidRange = "Invalid VLAN ID range"
	ReasonInactive     = "Inactive VLAN (status not 1)"
	ReasonExceededMax  = "Exceeded maximum valid VLAN count (4094)"
)

// RawResponse keeps one walk varbind for audit logging. It never feeds
// decision logic.
type RawResponse struct {
	OID   string      `json:"oid"`
	Value interface{} `json:"value"`
}

// VlanDiscoveryResult is the outcome of one VLAN sweep against a device.
type VlanDiscoveryResult struct {
	Target          string        `json:"target"`
	Vlans           []Vlan        `json:"vlans"`
	InvalidVlans    []InvalidVlan `json:"invalid_vlans"`
	ActiveCount     int           `json:"active_count"`
	InactiveCount   int           `json:"inactive_count"`
	TotalDiscovered int           `json:"total_discovered"`
	RawResponses    []RawResponse `json:"raw_responses,omitempty"`
}

// MacAddressRecord is one learned MAC address on a VLAN. MacAddress is six
// colon-separated uppercase hex octets.
type MacAddressRecord struct {
	MacAddress string `json:"mac_address"`
	VlanID     int    `json:"vlan_id"`
	DeviceType string `json:"device_type"`
}

// MacSweepRequest addresses a MAC forwarding-table sweep. Either Target or
// SessionID must be set; VlanIDs takes precedence over VlanID, and with
// neither set the sweep auto-discovers active VLANs first.
type MacSweepRequest struct {
	Target    string       `json:"target"`
	SessionID string       `json:"session_id"`
	Community string       `json:"community"`
	Version   snmp.Version `json:"version"`
	VlanIDs   []int        `json:"vlan_ids"`
	VlanID    int          `json:"vlan_id"`
}

// MacVlanChunk carries the records collected for one VLAN, emitted as soon
// as that VLAN's walk completes or is abandoned.
type MacVlanChunk struct {
	VlanID  int                `json:"vlan_id"`
	Records []MacAddressRecord `json:"records"`
}

// MacSweepSummary is the single terminal event of a sweep.
type MacSweepSummary struct {
	VlanIDs []int `json:"vlan_ids"`
	Success bool  `json:"success"`
}

// MacSweepEvent is one element of the sweep stream: a per-VLAN chunk, or
// the terminal summary. Exactly one summary is emitted, last.
type MacSweepEvent struct {
	Chunk   *MacVlanChunk    `json:"chunk,omitempty"`
	Summary *MacSweepSummary `json:"summary,omitempty"`
}

// MacSweepResult is the buffered form of a sweep for callers without a
// streaming transport. Records keep per-VLAN ordering.
type MacSweepResult struct {
	Records []MacAddressRecord `json:"records"`
	VlanIDs []int              `json:"vlan_ids"`
	Success bool               `json:"success"`
}

// Config tunes the discovery engine.
type Config struct {
	Port             uint16        `json:"port"`
	Timeout          time.Duration `json:"-"`
	Retries          int           `json:"retries"`
	MacVlanTimeout   time.Duration `json:"-"`
	MacWalkDeadline  time.Duration `json:"-"`
	IdentityCacheTTL time.Duration `json:"-"`
	PingFirst        bool          `json:"ping_first"`
}

// UnmarshalJSON accepts Go duration strings for the timeout fields.
func (c *Config) UnmarshalJSON(data []byte) error {
	type Alias Config

	aux := &struct {
		Timeout          string `json:"timeout"`
		MacVlanTimeout   string `json:"mac_vlan_timeout"`
		MacWalkDeadline  string `json:"mac_walk_deadline"`
		IdentityCacheTTL string `json:"identity_cache_ttl"`
		*Alias
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	for _, f := range []struct {
		raw string
		dst *time.Duration
	}{
		{aux.Timeout, &c.Timeout},
		{aux.MacVlanTimeout, &c.MacVlanTimeout},
		{aux.MacWalkDeadline, &c.MacWalkDeadline},
		{aux.IdentityCacheTTL, &c.IdentityCacheTTL},
	} {
		if f.raw == "" {
			continue
		}

		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", f.raw, err)
		}

		*f.dst = d
	}

	return nil
}
