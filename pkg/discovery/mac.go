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
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/snmp"
)

// DiscoverMacAddresses sweeps the bridge forwarding table of the selected
// VLANs and streams results: one chunk per VLAN as its walk completes, then
// exactly one terminal summary. VLANs are processed strictly sequentially
// so the sweep never floods the target device.
//
// A VLAN whose walk outlives the per-VLAN deadline is abandoned; whatever
// was collected before the deadline is kept and the sweep moves on. Late
// items from an abandoned walk are discarded.
func (e *Engine) DiscoverMacAddresses(ctx context.Context, req MacSweepRequest) (<-chan MacSweepEvent, error) {
	target := req.Target

	if target == "" {
		if req.SessionID == "" || e.registry == nil {
			return nil, ErrNoTarget
		}

		s, err := e.registry.Get(req.SessionID)
		if err != nil {
			return nil, err
		}

		// The sweep opens its own per-VLAN sessions, but it inherits the
		// credentials the registry session was opened with unless the
		// request overrides them.
		target = s.Target

		if req.Community == "" {
			req.Community = s.Community
		}

		if req.Version == "" {
			req.Version = s.Version
		}
	}

	vlanIDs, err := e.selectVlans(ctx, req, target)
	if err != nil {
		return nil, err
	}

	out := make(chan MacSweepEvent)

	go func() {
		defer close(out)

		success := true

		for _, vlanID := range vlanIDs {
			records, vlanErr := e.sweepVlan(ctx, target, req, vlanID)
			if vlanErr != nil {
				success = false

				e.log.Warn().
					Str("target", target).
					Int("vlan_id", vlanID).
					Err(vlanErr).
					Msg("VLAN sweep failed, continuing")
			}

			select {
			case out <- MacSweepEvent{Chunk: &MacVlanChunk{VlanID: vlanID, Records: records}}:
			case <-ctx.Done():
				return
			}
		}

		select {
		case out <- MacSweepEvent{Summary: &MacSweepSummary{VlanIDs: vlanIDs, Success: success}}:
		case <-ctx.Done():
		}
	}()

	return out, nil
}

// selectVlans resolves the VLAN list for a sweep: an explicit list beats a
// single id beats auto-discovery. The result is deduplicated and sorted
// ascending; auto-discovery failure falls back to the default VLAN 1.
func (e *Engine) selectVlans(ctx context.Context, req MacSweepRequest, target string) ([]int, error) {
	switch {
	case len(req.VlanIDs) > 0:
		return dedupSorted(req.VlanIDs), nil
	case req.VlanID != 0:
		return []int{req.VlanID}, nil
	}

	result, err := e.DiscoverVlans(ctx, TargetRequest{
		Target:    target,
		Community: req.Community,
		Version:   req.Version,
	})
	if err != nil {
		e.log.Warn().Str("target", target).Err(err).Msg("VLAN auto-discovery failed, sweeping default VLAN 1")

		return []int{1}, nil
	}

	ids := make([]int, 0, len(result.Vlans))
	for _, v := range result.Vlans {
		ids = append(ids, v.VlanID)
	}

	if len(ids) == 0 {
		return []int{1}, nil
	}

	return dedupSorted(ids), nil
}

// sweepVlan walks one VLAN's forwarding table through a dedicated session
// with a VLAN-scoped community, zero retries, and a hard wall-clock cap.
// It returns the records collected before completion or abandonment; the
// error is non-nil only for connect or non-timeout walk failures.
func (e *Engine) sweepVlan(ctx context.Context, target string, req MacSweepRequest, vlanID int) ([]MacAddressRecord, error) {
	conn, err := e.factory.NewConn(target, snmp.ClientOptions{
		Port:      e.cfg.Port,
		Community: vlanCommunity(req.Community, vlanID),
		Version:   versionOrDefault(req.Version),
		Timeout:   e.cfg.MacVlanTimeout,
		Retries:   0,
	})
	if err != nil {
		return nil, fmt.Errorf("open VLAN %d session: %w", vlanID, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			e.log.Warn().Int("vlan_id", vlanID).Err(cerr).Msg("Failed to close VLAN sweep session")
		}
	}()

	walkCtx, cancel := context.WithTimeout(ctx, e.cfg.MacWalkDeadline)
	defer cancel()

	var (
		records []MacAddressRecord
		seen    = make(map[string]bool)
		walkErr error
	)

	for item := range conn.Walk(walkCtx, oidDot1dTpFdbPort) {
		if item.Err != nil {
			if item.OID == "" {
				walkErr = item.Err
				break
			}

			e.log.Debug().Str("oid", item.OID).Err(item.Err).Msg("Skipping undecodable forwarding-table entry")

			continue
		}

		mac, err := macFromOID(item.OID)
		if err != nil {
			e.log.Debug().Str("oid", item.OID).Err(err).Msg("Skipping unparsable forwarding-table index")
			continue
		}

		if seen[mac.text] {
			continue
		}

		seen[mac.text] = true

		records = append(records, MacAddressRecord{
			MacAddress: mac.text,
			VlanID:     vlanID,
			DeviceType: e.classifier.Classify(mac.oui),
		})
	}

	switch {
	case walkErr == nil:
	case errors.Is(walkErr, snmp.ErrRequestTimeout), errors.Is(walkCtx.Err(), context.DeadlineExceeded):
		// Abandoned walk: keep the partial result.
		e.log.Debug().Int("vlan_id", vlanID).Int("collected", len(records)).Msg("VLAN walk abandoned at deadline")
	default:
		return records, walkErr
	}

	return records, nil
}

type macAddress struct {
	text string
	oui  [3]byte
}

// macFromOID decodes a MAC address from the final six dotted components of
// a forwarding-table OID, rendered as colon-separated uppercase hex.
func macFromOID(oid string) (macAddress, error) {
	parts := strings.Split(strings.TrimPrefix(oid, "."), ".")
	if len(parts) < 6 {
		return macAddress{}, fmt.Errorf("oid %q has no MAC suffix", oid)
	}

	var (
		mac macAddress
		sb  strings.Builder
	)

	for i, part := range parts[len(parts)-6:] {
		octet, err := strconv.Atoi(part)
		if err != nil || octet < 0 || octet > 255 {
			return macAddress{}, fmt.Errorf("oid %q has invalid MAC octet %q", oid, part)
		}

		if i > 0 {
			sb.WriteByte(':')
		}

		fmt.Fprintf(&sb, "%02X", octet)

		if i < 3 {
			mac.oui[i] = byte(octet)
		}
	}

	mac.text = sb.String()

	return mac, nil
}

// CollectMacAddresses runs a sweep and buffers the stream into a single
// result for callers without a streaming transport. Per-VLAN ordering is
// preserved.
func (e *Engine) CollectMacAddresses(ctx context.Context, req MacSweepRequest) (*MacSweepResult, error) {
	events, err := e.DiscoverMacAddresses(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &MacSweepResult{}

	for ev := range events {
		switch {
		case ev.Chunk != nil:
			result.Records = append(result.Records, ev.Chunk.Records...)
		case ev.Summary != nil:
			result.VlanIDs = ev.Summary.VlanIDs
			result.Success = ev.Summary.Success
		}
	}

	return result, nil
}

// dedupSorted returns the unique ids in ascending order.
func dedupSorted(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))

	for _, id := range ids {
		if seen[id] {
			continue
		}

		seen[id] = true

		out = append(out, id)
	}

	sort.Ints(out)

	return out
}

// versionOrDefault fills in the default protocol version.
func versionOrDefault(v snmp.Version) snmp.Version {
	if v == "" {
		return snmp.DefaultVersion
	}

	return v
}
