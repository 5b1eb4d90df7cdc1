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
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/snmp"
)

const (
	minVlanID    = 1
	maxVlanID    = 4094
	maxVlanCount = 4094

	vlanStateActive = 1
)

// DiscoverVlans walks a device's VLAN tables and returns the validated
// active VLANs plus every rejected entry with its reason. The state walk
// decides validity; the name walk only decorates already-accepted VLANs, so
// a malformed name response can never admit a VLAN that failed validation.
func (e *Engine) DiscoverVlans(ctx context.Context, req TargetRequest) (*VlanDiscoveryResult, error) {
	if req.Target == "" {
		return nil, ErrNoTarget
	}

	conn, err := e.open(req.Target, req.Community, req.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVlanWalkFailed, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			e.log.Warn().Str("target", req.Target).Err(cerr).Msg("Failed to close VLAN session")
		}
	}()

	result := &VlanDiscoveryResult{Target: req.Target}

	candidates := make(map[int]*Vlan)

	seen := make(map[int]bool)

	for item := range conn.Walk(ctx, oidVtpVlanState) {
		if item.Err != nil {
			if item.OID == "" {
				return nil, fmt.Errorf("%w: %w", ErrVlanWalkFailed, item.Err)
			}

			e.log.Debug().Str("oid", item.OID).Err(item.Err).Msg("Skipping undecodable VLAN state entry")

			continue
		}

		result.RawResponses = append(result.RawResponses, RawResponse{OID: item.OID, Value: item.Value})

		id, err := lastOIDComponent(item.OID)
		if err != nil {
			e.log.Debug().Str("oid", item.OID).Msg("Skipping VLAN state entry without numeric index")
			continue
		}

		if seen[id] {
			continue
		}

		seen[id] = true

		if id < minVlanID || id > maxVlanID {
			result.InvalidVlans = append(result.InvalidVlans, InvalidVlan{VlanID: id, Reason: ReasonInvalidRange})
			continue
		}

		state, ok := item.Value.(int64)
		if !ok || state != vlanStateActive {
			result.InvalidVlans = append(result.InvalidVlans, InvalidVlan{VlanID: id, Reason: ReasonInactive})
			continue
		}

		candidates[id] = &Vlan{
			VlanID: id,
			Name:   "VLAN" + strconv.Itoa(id),
			State:  "active",
			UsedBy: []string{req.Target},
		}
	}

	if len(candidates) > 0 {
		if err := e.resolveVlanNames(ctx, conn, candidates, result); err != nil {
			return nil, err
		}
	}

	for _, v := range candidates {
		result.Vlans = append(result.Vlans, *v)
	}

	sort.Slice(result.Vlans, func(i, j int) bool { return result.Vlans[i].VlanID < result.Vlans[j].VlanID })

	// The id range already bounds candidates at 4094 entries; the cap stays
	// as a guard against devices that violate it.
	if len(result.Vlans) > maxVlanCount {
		for _, v := range result.Vlans[maxVlanCount:] {
			result.InvalidVlans = append(result.InvalidVlans, InvalidVlan{VlanID: v.VlanID, Reason: ReasonExceededMax})
		}

		result.Vlans = result.Vlans[:maxVlanCount]
	}

	result.ActiveCount = len(result.Vlans)

	for _, iv := range result.InvalidVlans {
		if iv.Reason == ReasonInactive {
			result.InactiveCount++
		}
	}

	result.TotalDiscovered = len(result.Vlans) + len(result.InvalidVlans)

	e.log.Info().
		Str("target", req.Target).
		Int("active", result.ActiveCount).
		Int("invalid", len(result.InvalidVlans)).
		Msg("VLAN discovery complete")

	return result, nil
}

// resolveVlanNames walks the VLAN name column and overwrites each
// candidate's placeholder name with the first decoded, non-empty name for
// its id.
func (e *Engine) resolveVlanNames(ctx context.Context, conn snmp.Conn, candidates map[int]*Vlan, result *VlanDiscoveryResult) error {
	named := make(map[int]bool)

	for item := range conn.Walk(ctx, oidVtpVlanName) {
		if item.Err != nil {
			if item.OID == "" {
				return fmt.Errorf("%w: %w", ErrVlanWalkFailed, item.Err)
			}

			e.log.Debug().Str("oid", item.OID).Err(item.Err).Msg("Skipping undecodable VLAN name entry")

			continue
		}

		result.RawResponses = append(result.RawResponses, RawResponse{OID: item.OID, Value: item.Value})

		id, err := lastOIDComponent(item.OID)
		if err != nil {
			continue
		}

		v, ok := candidates[id]
		if !ok || named[id] {
			continue
		}

		name, ok := item.Value.(string)
		if !ok {
			continue
		}

		named[id] = true

		if trimmed := strings.TrimSpace(name); trimmed != "" {
			v.Name = trimmed
		}
	}

	return nil
}
