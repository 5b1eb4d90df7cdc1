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

// Caps on the refinement walks so a huge entity or interface table cannot
// stall an identity query.
const (
	maxEntPhysicalRows = 10
	maxIfTypeRows      = 1024

	ethernetSwitchThreshold = 10
	wanRouterThreshold      = 3
)

// IdentifyDevice resolves a device's identity: the four system-group
// values, manufacturer by vendor OID prefix, model by per-family pattern,
// and device type by product OID then keyword heuristics. Results are
// cached per target for a short TTL.
func (e *Engine) IdentifyDevice(ctx context.Context, req TargetRequest) (*DeviceInfo, error) {
	if req.Target == "" {
		return nil, ErrNoTarget
	}

	if cached, ok := e.idCache.Get(req.Target); ok {
		info := cached.(*DeviceInfo)
		e.log.Debug().Str("target", req.Target).Msg("Identity served from cache")

		return info, nil
	}

	if e.cfg.PingFirst && !pingHost(req.Target) {
		return nil, fmt.Errorf("%w: %s", ErrHostUnreachable, req.Target)
	}

	conn, err := e.open(req.Target, req.Community, req.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityFailed, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			e.log.Warn().Str("target", req.Target).Err(cerr).Msg("Failed to close identity session")
		}
	}()

	binds, err := conn.Get([]string{oidSysDescr, oidSysObjectID, oidSysName, oidSysLocation})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityFailed, err)
	}

	info := &DeviceInfo{Target: req.Target}

	for _, b := range binds {
		text, ok := b.Value.(string)
		if !ok {
			if b.Value != nil {
				e.log.Debug().Str("oid", b.OID).Msg("Ignoring non-text system value")
			}

			continue
		}

		switch {
		case strings.HasPrefix(b.OID, oidSysDescr):
			info.SysDescr = text
		case strings.HasPrefix(b.OID, oidSysObjectID):
			info.SysObjectID = text
		case strings.HasPrefix(b.OID, oidSysName):
			info.SysName = text
		case strings.HasPrefix(b.OID, oidSysLocation):
			info.SysLocation = text
		}
	}

	info.Manufacturer = manufacturerFor(info.SysObjectID)
	info.Model = modelFor(info.Manufacturer, info.SysDescr)
	info.DeviceType = deviceTypeFor(info.SysObjectID, info.SysDescr)

	// Refinements are best-effort; any failure leaves the base identity
	// intact.
	if info.Manufacturer == "Cisco" {
		e.refineModelFromInventory(ctx, conn, info)
	}

	if info.DeviceType == TypeOther {
		e.refineTypeFromInterfaces(ctx, conn, info)
	}

	e.idCache.SetDefault(req.Target, info)

	e.log.Info().
		Str("target", req.Target).
		Str("manufacturer", info.Manufacturer).
		Str("model", info.Model).
		Str("device_type", info.DeviceType).
		Msg("Device identified")

	return info, nil
}

// refineModelFromInventory walks the physical-inventory model column and
// takes the first model-like entry among the lowest-indexed rows. The walk
// is capped so deep entity trees cannot stall the query.
func (e *Engine) refineModelFromInventory(ctx context.Context, conn snmp.Conn, info *DeviceInfo) {
	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type row struct {
		index int
		value string
	}

	rows := make([]row, 0, maxEntPhysicalRows)

	for item := range conn.Walk(walkCtx, oidEntPhysicalModelName) {
		if item.Err != nil {
			if item.OID == "" {
				e.log.Debug().Str("target", info.Target).Err(item.Err).Msg("Inventory walk failed, keeping base model")
				return
			}

			continue
		}

		text, ok := item.Value.(string)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}

		idx, err := lastOIDComponent(item.OID)
		if err != nil {
			continue
		}

		rows = append(rows, row{index: idx, value: strings.TrimSpace(text)})

		if len(rows) >= maxEntPhysicalRows {
			cancel()
			break
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].index < rows[j].index })

	for _, r := range rows {
		if !looksLikeModel(r.value) {
			continue
		}

		info.ExactModel = r.value

		if info.Model == "" {
			info.Model = r.value
		}

		return
	}
}

// looksLikeModel reports whether an inventory string is a chassis model
// designator rather than a port or module description.
func looksLikeModel(s string) bool {
	if re, ok := modelRules["Cisco"]; ok && re.MatchString(s) {
		return true
	}

	return genericModelPattern.MatchString(s)
}

// refineTypeFromInterfaces classifies a still-unknown device by its
// interface mix: many Ethernet ports suggest a switch, several PPP or
// tunnel interfaces suggest a router.
func (e *Engine) refineTypeFromInterfaces(ctx context.Context, conn snmp.Conn, info *DeviceInfo) {
	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var ethernet, wan, rows int

	for item := range conn.Walk(walkCtx, oidIfType) {
		if item.Err != nil {
			if item.OID == "" {
				e.log.Debug().Str("target", info.Target).Err(item.Err).Msg("Interface walk failed, keeping base type")
				return
			}

			continue
		}

		v, ok := item.Value.(int64)
		if !ok {
			continue
		}

		switch v {
		case ifTypeEthernetCsmacd:
			ethernet++
		case ifTypePPP, ifTypeTunnel:
			wan++
		}

		rows++
		if rows >= maxIfTypeRows {
			cancel()
			break
		}
	}

	switch {
	case ethernet > ethernetSwitchThreshold:
		info.DeviceType = TypeSwitch
	case wan > wanRouterThreshold:
		info.DeviceType = TypeRouter
	}
}

// lastOIDComponent parses the final dotted component of an OID as an
// integer index.
func lastOIDComponent(oid string) (int, error) {
	i := strings.LastIndexByte(oid, '.')
	if i < 0 || i == len(oid)-1 {
		return 0, fmt.Errorf("oid %q has no index component", oid)
	}

	return strconv.Atoi(oid[i+1:])
}
